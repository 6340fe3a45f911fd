package composition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
	"github.com/agrofeira/feira-backend/pkg/metrics"
	"github.com/agrofeira/feira-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates composition sessions: drafts, previews and commits.
type Service interface {
	Commit(ctx context.Context, input CommitInput) (*models.Composition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Composition, error)
	List(ctx context.Context, cycleID, marketID uuid.UUID, params pagination.Params) (*CompositionList, error)
	SaveDraft(ctx context.Context, input DraftInput) (DraftView, error)
	LoadDraft(ctx context.Context, cycleID, marketID uuid.UUID) (DraftView, error)
	DiscardDraft(ctx context.Context, cycleID, marketID uuid.UUID) error
}

type service struct {
	tx       txRunner
	repo     Repository
	offers   OfferLoader
	ceilings CeilingLoader
	drafts   Drafts
	metrics  *metrics.CompositionMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewService builds the composition service.
func NewService(
	tx txRunner,
	repo Repository,
	offers OfferLoader,
	ceilings CeilingLoader,
	drafts Drafts,
	compositionMetrics *metrics.CompositionMetrics,
	log *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("composition repository required")
	}
	if offers == nil {
		return nil, fmt.Errorf("offer loader required")
	}
	if ceilings == nil {
		return nil, fmt.Errorf("ceiling loader required")
	}
	if drafts == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		offers:   offers,
		ceilings: ceilings,
		drafts:   drafts,
		metrics:  compositionMetrics,
		log:      log,
		now:      time.Now,
	}, nil
}

func (s *service) Commit(ctx context.Context, input CommitInput) (*models.Composition, error) {
	if input.CycleID == uuid.Nil || input.MarketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid composition kind")
	}

	pair, allocator, err := s.buildSession(ctx, input.CycleID, input.MarketID, input.Groups, input.Quantities)
	if err != nil {
		return nil, err
	}

	items := allocator.SelectedItems()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "composition has no items with quantity")
	}

	totals := allocator.Totals()
	guard := NewBudgetGuard(pair.BudgetCeiling)
	if guard.RequiresConfirmation(totals.MonetaryTotal) && !input.ConfirmOverBudget {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "monetary total exceeds the market ceiling").
			WithDetails(OverBudgetDetails{
				MonetaryTotal: totals.MonetaryTotal,
				BudgetCeiling: guard.Ceiling(),
				Excess:        guard.Excess(totals.MonetaryTotal),
			})
	}

	record := &models.Composition{
		CycleID:       input.CycleID,
		MarketID:      input.MarketID,
		Kind:          input.Kind,
		ItemCount:     totals.ItemCount,
		UnitCount:     totals.UnitCount,
		MonetaryTotal: totals.MonetaryTotal,
		BudgetCeiling: guard.Ceiling(),
		AboveCeiling:  guard.Classify(totals.MonetaryTotal) == BudgetAbove,
		CommittedBy:   input.CommittedBy,
		Items:         buildItems(items),
	}

	var committed *models.Composition
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist composition")
		}
		committed = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The session is consumed; a stale draft would resurrect it.
	if err := s.drafts.Discard(ctx, input.CycleID, input.MarketID); err != nil {
		warnCtx := s.log.WithFields(ctx, map[string]any{
			"cycle_id":  input.CycleID.String(),
			"market_id": input.MarketID.String(),
			"error":     err.Error(),
		})
		s.log.Warn(warnCtx, "discard draft after commit failed")
	}

	if s.metrics != nil {
		total, _ := committed.MonetaryTotal.Float64()
		s.metrics.ObserveCommit(committed.Kind.String(), total, committed.AboveCeiling)
	}

	infoCtx := s.log.WithFields(ctx, map[string]any{
		"composition_id": committed.ID.String(),
		"cycle_id":       committed.CycleID.String(),
		"market_id":      committed.MarketID.String(),
		"kind":           committed.Kind.String(),
		"item_count":     committed.ItemCount,
		"unit_count":     committed.UnitCount,
		"monetary_total": committed.MonetaryTotal.StringFixed(2),
		"above_ceiling":  committed.AboveCeiling,
	})
	s.log.Info(infoCtx, "composition committed")
	return committed, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Composition, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "composition id required")
	}
	composition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "composition not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load composition")
	}
	return composition, nil
}

func (s *service) List(ctx context.Context, cycleID, marketID uuid.UUID, params pagination.Params) (*CompositionList, error) {
	if cycleID == uuid.Nil || marketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}
	list, err := s.repo.ListByCycleMarket(ctx, cycleID, marketID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list compositions")
	}
	return list, nil
}

func (s *service) SaveDraft(ctx context.Context, input DraftInput) (DraftView, error) {
	if input.CycleID == uuid.Nil || input.MarketID == uuid.Nil {
		return DraftView{}, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}

	pair, allocator, err := s.buildSession(ctx, input.CycleID, input.MarketID, input.Groups, input.Quantities)
	if err != nil {
		return DraftView{}, err
	}

	snap := allocator.Snapshot(input.CycleID, input.MarketID, s.now())
	if err := s.drafts.Save(ctx, snap); err != nil {
		return DraftView{}, err
	}
	return s.viewOf(snap, allocator, pair), nil
}

func (s *service) LoadDraft(ctx context.Context, cycleID, marketID uuid.UUID) (DraftView, error) {
	if cycleID == uuid.Nil || marketID == uuid.Nil {
		return DraftView{}, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}

	stored, err := s.drafts.Load(ctx, cycleID, marketID)
	if err != nil {
		return DraftView{}, err
	}

	pair, err := s.loadPair(ctx, cycleID, marketID)
	if err != nil {
		return DraftView{}, err
	}
	catalog, err := s.offers.ListByCycleMarket(ctx, cycleID, marketID)
	if err != nil {
		return DraftView{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer catalog")
	}

	allocator := NewAllocator(catalog)
	allocator.Restore(stored)

	snap := allocator.Snapshot(cycleID, marketID, stored.SavedAt)
	return s.viewOf(snap, allocator, pair), nil
}

func (s *service) DiscardDraft(ctx context.Context, cycleID, marketID uuid.UUID) error {
	if cycleID == uuid.Nil || marketID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}
	return s.drafts.Discard(ctx, cycleID, marketID)
}

// buildSession loads the pair's ceiling and catalog, then replays the wire
// selection through a fresh allocator so every quantity is clamped against
// current availability.
func (s *service) buildSession(
	ctx context.Context,
	cycleID, marketID uuid.UUID,
	groups []SelectionGroup,
	quantities []QuantityEntry,
) (*models.CycleMarket, *Allocator, error) {
	pair, err := s.loadPair(ctx, cycleID, marketID)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := s.offers.ListByCycleMarket(ctx, cycleID, marketID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offer catalog")
	}

	allocator := NewAllocator(catalog)
	for _, group := range groups {
		for _, id := range group.OfferIDs {
			if !allocator.IsSelected(group.Key, id) {
				allocator.Toggle(group.Key, id)
			}
		}
	}
	for _, entry := range quantities {
		allocator.SetQuantity(entry.OfferID, entry.Quantity)
	}
	return pair, allocator, nil
}

func (s *service) loadPair(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error) {
	pair, err := s.ceilings.CeilingFor(ctx, cycleID, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "market is not part of this cycle")
		}
		return nil, err
	}
	return pair, nil
}

func (s *service) viewOf(snap DraftSnapshot, allocator *Allocator, pair *models.CycleMarket) DraftView {
	totals := allocator.Totals()
	guard := NewBudgetGuard(pair.BudgetCeiling)
	return DraftView{
		CycleID:       snap.CycleID,
		MarketID:      snap.MarketID,
		Groups:        snap.Groups,
		Quantities:    snap.Quantities,
		SavedAt:       snap.SavedAt,
		Totals:        totalsView(totals),
		BudgetCeiling: guard.Ceiling(),
		Standing:      guard.Classify(totals.MonetaryTotal),
	}
}

func buildItems(items []SelectedItem) []models.CompositionItem {
	out := make([]models.CompositionItem, 0, len(items))
	for _, item := range items {
		line := item.Offer.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		out = append(out, models.CompositionItem{
			OfferID:      item.Offer.ID,
			SupplierID:   item.Offer.SupplierID,
			BaseProduct:  item.Offer.BaseProduct,
			DisplayName:  item.Offer.DisplayName,
			Unit:         item.Offer.Unit,
			UnitPrice:    item.Offer.UnitPrice,
			AvailableQty: item.Offer.AvailableQty,
			OrderedQty:   item.Quantity,
			LineTotal:    line,
		})
	}
	return out
}
