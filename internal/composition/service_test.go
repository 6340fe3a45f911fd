package composition

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
	"github.com/agrofeira/feira-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	created *models.Composition
	findErr error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, composition *models.Composition) (*models.Composition, error) {
	composition.ID = uuid.New()
	s.created = composition
	return composition, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Composition, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.created == nil || s.created.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.created, nil
}

func (s *stubRepo) ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID, params pagination.Params) (*CompositionList, error) {
	if s.created == nil {
		return &CompositionList{}, nil
	}
	return &CompositionList{Compositions: []models.Composition{*s.created}}, nil
}

type stubOfferLoader struct {
	offers []models.Offer
	err    error
}

func (s *stubOfferLoader) ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) ([]models.Offer, error) {
	return s.offers, s.err
}

type stubCeilingLoader struct {
	pair *models.CycleMarket
	err  error
}

func (s *stubCeilingLoader) CeilingFor(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pair, nil
}

type stubDrafts struct {
	saved     *DraftSnapshot
	discarded int
}

func (s *stubDrafts) Save(ctx context.Context, snap DraftSnapshot) error {
	s.saved = &snap
	return nil
}

func (s *stubDrafts) Load(ctx context.Context, cycleID, marketID uuid.UUID) (DraftSnapshot, error) {
	if s.saved == nil {
		return DraftSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
	}
	return *s.saved, nil
}

func (s *stubDrafts) Discard(ctx context.Context, cycleID, marketID uuid.UUID) error {
	s.discarded++
	s.saved = nil
	return nil
}

type fixture struct {
	svc    Service
	repo   *stubRepo
	drafts *stubDrafts

	cycleID  uuid.UUID
	marketID uuid.UUID
	offers   []models.Offer
}

func newFixture(t *testing.T, ceiling string, offers []models.Offer) *fixture {
	t.Helper()

	cycleID := uuid.New()
	marketID := uuid.New()
	repo := &stubRepo{}
	drafts := &stubDrafts{}
	svc, err := NewService(
		stubTxRunner{},
		repo,
		&stubOfferLoader{offers: offers},
		&stubCeilingLoader{pair: &models.CycleMarket{
			CycleID:       cycleID,
			MarketID:      marketID,
			MarketName:    "Feira Central",
			BudgetCeiling: decimal.RequireFromString(ceiling),
		}},
		drafts,
		nil,
		logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}),
	)
	require.NoError(t, err)
	return &fixture{
		svc:      svc,
		repo:     repo,
		drafts:   drafts,
		cycleID:  cycleID,
		marketID: marketID,
		offers:   offers,
	}
}

func selectionFor(offers []models.Offer, quantities map[uuid.UUID]int) ([]SelectionGroup, []QuantityEntry) {
	grouped := map[string]*SelectionGroup{}
	var order []string
	for _, offer := range offers {
		group, ok := grouped[offer.BaseProduct]
		if !ok {
			group = &SelectionGroup{Key: offer.BaseProduct}
			grouped[offer.BaseProduct] = group
			order = append(order, offer.BaseProduct)
		}
		group.OfferIDs = append(group.OfferIDs, offer.ID)
	}

	var groups []SelectionGroup
	for _, key := range order {
		groups = append(groups, *grouped[key])
	}
	var entries []QuantityEntry
	for _, offer := range offers {
		if qty, ok := quantities[offer.ID]; ok {
			entries = append(entries, QuantityEntry{OfferID: offer.ID, Quantity: qty})
		}
	}
	return groups, entries
}

func TestCommitWithinBudget(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "4.50", 50)
	fx := newFixture(t, "500.00", []models.Offer{tomato})
	groups, quantities := selectionFor(fx.offers, map[uuid.UUID]int{tomato.ID: 10})

	committed, err := fx.svc.Commit(context.Background(), CommitInput{
		CycleID:     fx.cycleID,
		MarketID:    fx.marketID,
		Kind:        enums.CompositionKindBasket,
		Groups:      groups,
		Quantities:  quantities,
		CommittedBy: "ana",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, committed.ItemCount)
	assert.Equal(t, 10, committed.UnitCount)
	assert.True(t, committed.MonetaryTotal.Equal(decimal.RequireFromString("45.00")))
	assert.False(t, committed.AboveCeiling)
	assert.Equal(t, "ana", committed.CommittedBy)

	require.Len(t, committed.Items, 1)
	item := committed.Items[0]
	assert.Equal(t, tomato.ID, item.OfferID)
	assert.Equal(t, tomato.SupplierID, item.SupplierID)
	assert.Equal(t, 50, item.AvailableQty)
	assert.Equal(t, 10, item.OrderedQty)
	assert.True(t, item.LineTotal.Equal(decimal.RequireFromString("45.00")))

	assert.Equal(t, 1, fx.drafts.discarded, "commit must discard the draft")
}

func TestCommitCountsOfferOnceAcrossDuplicateGroupKeys(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "2.00", 10)
	fx := newFixture(t, "500.00", []models.Offer{tomato})

	groups := []SelectionGroup{
		{Key: "tomato", OfferIDs: []uuid.UUID{tomato.ID}},
		{Key: "tomatoes", OfferIDs: []uuid.UUID{tomato.ID}},
	}
	quantities := []QuantityEntry{{OfferID: tomato.ID, Quantity: 3}}

	committed, err := fx.svc.Commit(context.Background(), CommitInput{
		CycleID:    fx.cycleID,
		MarketID:   fx.marketID,
		Kind:       enums.CompositionKindBasket,
		Groups:     groups,
		Quantities: quantities,
	})
	require.NoError(t, err)

	require.Len(t, committed.Items, 1)
	assert.Equal(t, 1, committed.ItemCount)
	assert.Equal(t, 3, committed.UnitCount)
	assert.True(t, committed.MonetaryTotal.Equal(decimal.RequireFromString("6.00")),
		"got %s", committed.MonetaryTotal)
}

func TestCommitClampsAgainstCurrentAvailability(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "4.50", 50)
	fx := newFixture(t, "500.00", []models.Offer{tomato})
	groups, quantities := selectionFor(fx.offers, map[uuid.UUID]int{tomato.ID: 60})

	committed, err := fx.svc.Commit(context.Background(), CommitInput{
		CycleID:    fx.cycleID,
		MarketID:   fx.marketID,
		Kind:       enums.CompositionKindBasket,
		Groups:     groups,
		Quantities: quantities,
	})
	require.NoError(t, err)

	require.Len(t, committed.Items, 1)
	assert.Equal(t, 50, committed.Items[0].OrderedQty)
	assert.True(t, committed.MonetaryTotal.Equal(decimal.RequireFromString("225.00")))
}

func TestCommitOverBudgetNeedsConfirmation(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "6.20", 200)
	fx := newFixture(t, "500.00", []models.Offer{tomato})
	groups, quantities := selectionFor(fx.offers, map[uuid.UUID]int{tomato.ID: 100})

	input := CommitInput{
		CycleID:    fx.cycleID,
		MarketID:   fx.marketID,
		Kind:       enums.CompositionKindBasket,
		Groups:     groups,
		Quantities: quantities,
	}

	_, err := fx.svc.Commit(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	details, ok := typed.Details().(OverBudgetDetails)
	require.True(t, ok)
	assert.True(t, details.MonetaryTotal.Equal(decimal.RequireFromString("620.00")))
	assert.True(t, details.Excess.Equal(decimal.RequireFromString("120.00")))
	assert.Nil(t, fx.repo.created, "nothing may persist without confirmation")

	input.ConfirmOverBudget = true
	committed, err := fx.svc.Commit(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, committed.AboveCeiling)
	assert.True(t, committed.MonetaryTotal.Equal(decimal.RequireFromString("620.00")))
}

func TestCommitAtCeilingNeedsNoConfirmation(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "5.00", 200)
	fx := newFixture(t, "500.00", []models.Offer{tomato})
	groups, quantities := selectionFor(fx.offers, map[uuid.UUID]int{tomato.ID: 100})

	committed, err := fx.svc.Commit(context.Background(), CommitInput{
		CycleID:    fx.cycleID,
		MarketID:   fx.marketID,
		Kind:       enums.CompositionKindBasket,
		Groups:     groups,
		Quantities: quantities,
	})
	require.NoError(t, err)
	assert.False(t, committed.AboveCeiling)
}

func TestCommitWithoutItemsRejected(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "4.50", 50)
	fx := newFixture(t, "500.00", []models.Offer{tomato})
	groups, _ := selectionFor(fx.offers, nil)

	_, err := fx.svc.Commit(context.Background(), CommitInput{
		CycleID:  fx.cycleID,
		MarketID: fx.marketID,
		Kind:     enums.CompositionKindBasket,
		Groups:   groups,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCommitUnknownPairRejected(t *testing.T) {
	t.Parallel()

	svc, err := NewService(
		stubTxRunner{},
		&stubRepo{},
		&stubOfferLoader{},
		&stubCeilingLoader{err: gorm.ErrRecordNotFound},
		&stubDrafts{},
		nil,
		logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}),
	)
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), CommitInput{
		CycleID:  uuid.New(),
		MarketID: uuid.New(),
		Kind:     enums.CompositionKindBasket,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCommitInvalidKindRejected(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, "500.00", nil)
	_, err := fx.svc.Commit(context.Background(), CommitInput{
		CycleID:  fx.cycleID,
		MarketID: fx.marketID,
		Kind:     enums.CompositionKind("bouquet"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSaveAndLoadDraftRoundTrip(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "4.50", 50)
	carrot := testOffer("carrot", "Carrot, bundle", "3.00", 20)
	fx := newFixture(t, "500.00", []models.Offer{tomato, carrot})
	groups, quantities := selectionFor(fx.offers, map[uuid.UUID]int{tomato.ID: 10, carrot.ID: 2})

	saved, err := fx.svc.SaveDraft(context.Background(), DraftInput{
		CycleID:    fx.cycleID,
		MarketID:   fx.marketID,
		Groups:     groups,
		Quantities: quantities,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Totals.ItemCount)
	assert.Equal(t, BudgetWithin, saved.Standing)

	loaded, err := fx.svc.LoadDraft(context.Background(), fx.cycleID, fx.marketID)
	require.NoError(t, err)
	assert.Equal(t, saved.Groups, loaded.Groups)
	assert.Equal(t, saved.Quantities, loaded.Quantities)
	assert.True(t, loaded.Totals.MonetaryTotal.Equal(decimal.RequireFromString("51.00")))
}

func TestLoadDraftReclampsAgainstCurrentCatalog(t *testing.T) {
	t.Parallel()

	tomato := testOffer("tomato", "Tomato, 1kg box", "4.50", 50)
	cycleID := uuid.New()
	marketID := uuid.New()
	drafts := &stubDrafts{saved: &DraftSnapshot{
		CycleID:  cycleID,
		MarketID: marketID,
		Groups: []DraftGroup{
			{Key: "tomato", OfferIDs: []uuid.UUID{tomato.ID, uuid.New()}},
		},
		Quantities: []DraftQuantity{{OfferID: tomato.ID, Quantity: 80}},
		SavedAt:    time.Now().Add(-time.Hour),
	}}

	svc, err := NewService(
		stubTxRunner{},
		&stubRepo{},
		&stubOfferLoader{offers: []models.Offer{tomato}},
		&stubCeilingLoader{pair: &models.CycleMarket{
			CycleID:       cycleID,
			MarketID:      marketID,
			BudgetCeiling: decimal.RequireFromString("500.00"),
		}},
		drafts,
		nil,
		logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}),
	)
	require.NoError(t, err)

	view, err := svc.LoadDraft(context.Background(), cycleID, marketID)
	require.NoError(t, err)

	// The vanished offer is dropped, the surviving quantity is re-clamped.
	require.Len(t, view.Groups, 1)
	assert.Equal(t, []uuid.UUID{tomato.ID}, view.Groups[0].OfferIDs)
	require.Len(t, view.Quantities, 1)
	assert.Equal(t, 50, view.Quantities[0].Quantity)
	assert.True(t, view.Totals.MonetaryTotal.Equal(decimal.RequireFromString("225.00")))
}

func TestLoadDraftMissing(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, "500.00", nil)
	_, err := fx.svc.LoadDraft(context.Background(), fx.cycleID, fx.marketID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDiscardDraft(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, "500.00", nil)
	fx.drafts.saved = &DraftSnapshot{CycleID: fx.cycleID, MarketID: fx.marketID}

	require.NoError(t, fx.svc.DiscardDraft(context.Background(), fx.cycleID, fx.marketID))
	assert.Nil(t, fx.drafts.saved)
}
