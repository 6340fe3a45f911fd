package composition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
)

// SelectionGroup is the wire form of one base-product group in a commit or
// draft payload. Offer order is the operator's pick order and is preserved.
type SelectionGroup struct {
	Key      string      `json:"key" validate:"required"`
	OfferIDs []uuid.UUID `json:"offer_ids" validate:"required,min=1"`
}

// QuantityEntry is the wire form of one quantity assignment.
type QuantityEntry struct {
	OfferID  uuid.UUID `json:"offer_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// CommitInput carries everything needed to turn a selection into a committed
// composition.
type CommitInput struct {
	CycleID           uuid.UUID
	MarketID          uuid.UUID
	Kind              enums.CompositionKind
	Groups            []SelectionGroup
	Quantities        []QuantityEntry
	ConfirmOverBudget bool
	CommittedBy       string
}

// DraftInput carries an in-progress selection to be snapshotted.
type DraftInput struct {
	CycleID    uuid.UUID
	MarketID   uuid.UUID
	Groups     []SelectionGroup
	Quantities []QuantityEntry
}

// DraftView is a rehydrated draft: the stored selection replayed against the
// current catalog, with quantities re-clamped and totals recomputed.
type DraftView struct {
	CycleID       uuid.UUID       `json:"cycle_id"`
	MarketID      uuid.UUID       `json:"market_id"`
	Groups        []DraftGroup    `json:"groups"`
	Quantities    []DraftQuantity `json:"quantities"`
	SavedAt       time.Time       `json:"saved_at"`
	Totals        TotalsView      `json:"totals"`
	BudgetCeiling decimal.Decimal `json:"budget_ceiling"`
	Standing      BudgetStanding  `json:"budget_standing"`
}

// TotalsView is the JSON shape of the running aggregates.
type TotalsView struct {
	ItemCount     int             `json:"item_count"`
	UnitCount     int             `json:"unit_count"`
	MonetaryTotal decimal.Decimal `json:"monetary_total"`
}

// CompositionList is a cursor page of committed compositions.
type CompositionList struct {
	Compositions []models.Composition `json:"compositions"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

// OverBudgetDetails is attached to the commit rejection when the total is
// above the ceiling and the operator has not confirmed.
type OverBudgetDetails struct {
	MonetaryTotal decimal.Decimal `json:"monetary_total"`
	BudgetCeiling decimal.Decimal `json:"budget_ceiling"`
	Excess        decimal.Decimal `json:"excess"`
}

func totalsView(totals Totals) TotalsView {
	return TotalsView{
		ItemCount:     totals.ItemCount,
		UnitCount:     totals.UnitCount,
		MonetaryTotal: totals.MonetaryTotal,
	}
}
