package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/pkg/db/models"
)

// CreateOfferInput carries a new offer for one (cycle, market) catalog.
type CreateOfferInput struct {
	CycleID       uuid.UUID
	MarketID      uuid.UUID
	SupplierID    uuid.UUID
	BaseProduct   string          `validate:"required"`
	DisplayName   string          `validate:"required"`
	Unit          string          `validate:"required"`
	UnitPrice     decimal.Decimal `validate:"required"`
	AvailableQty  int             `validate:"gte=0"`
	Certification string          `validate:"required"`
	FarmingType   string          `validate:"required"`
	Keywords      []string
}

// UpdateOfferInput carries partial offer updates. Nil fields are untouched.
type UpdateOfferInput struct {
	DisplayName  *string
	UnitPrice    *decimal.Decimal
	AvailableQty *int
	Keywords     []string
}

// CreateSupplierInput carries a new supplier record.
type CreateSupplierInput struct {
	Name        string `validate:"required"`
	Document    string `validate:"required"`
	FarmingType string `validate:"required"`
	City        string
}

// BrowseQuery is the catalog browse request: free text plus facet tags.
type BrowseQuery struct {
	Term           string
	Certifications []string
	FarmingTypes   []string
}

// GroupView is the JSON shape of one grouped catalog entry.
type GroupView struct {
	BaseProduct string         `json:"base_product"`
	Offers      []models.Offer `json:"offers"`
}

// BrowseResult is the grouped, filtered catalog for a (cycle, market) pair.
type BrowseResult struct {
	Groups     []GroupView `json:"groups"`
	GroupCount int         `json:"group_count"`
	OfferCount int         `json:"offer_count"`
}
