package cycles

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
)

type stubCycleRepo struct {
	cycles map[uuid.UUID]*models.Cycle
}

func newStubCycleRepo() *stubCycleRepo {
	return &stubCycleRepo{cycles: map[uuid.UUID]*models.Cycle{}}
}

func (s *stubCycleRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCycleRepo) Create(ctx context.Context, cycle *models.Cycle) (*models.Cycle, error) {
	cycle.ID = uuid.New()
	for i := range cycle.Markets {
		cycle.Markets[i].ID = uuid.New()
		cycle.Markets[i].CycleID = cycle.ID
	}
	s.cycles[cycle.ID] = cycle
	return cycle, nil
}

func (s *stubCycleRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	cycle, ok := s.cycles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cycle, nil
}

func (s *stubCycleRepo) List(ctx context.Context, status *enums.CycleStatus) ([]models.Cycle, error) {
	var out []models.Cycle
	for _, cycle := range s.cycles {
		if status != nil && cycle.Status != *status {
			continue
		}
		out = append(out, *cycle)
	}
	return out, nil
}

func (s *stubCycleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CycleStatus) error {
	cycle, ok := s.cycles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cycle.Status = status
	return nil
}

func (s *stubCycleRepo) FindCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error) {
	cycle, ok := s.cycles[cycleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range cycle.Markets {
		if cycle.Markets[i].MarketID == marketID {
			return &cycle.Markets[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCycleRepo) UpdateCeiling(ctx context.Context, cycleID, marketID uuid.UUID, ceiling decimal.Decimal) error {
	pair, err := s.FindCycleMarket(ctx, cycleID, marketID)
	if err != nil {
		return err
	}
	pair.BudgetCeiling = ceiling
	return nil
}

func newCycleService(t *testing.T) (Service, *stubCycleRepo) {
	t.Helper()
	repo := newStubCycleRepo()
	svc, err := NewService(repo, logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}))
	require.NoError(t, err)
	return svc, repo
}

func validCreateInput() CreateInput {
	return CreateInput{
		Name:     "Ciclo 2026-35",
		StartsAt: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Markets: []MarketInput{
			{
				MarketID:      uuid.New(),
				MarketName:    "Feira Central",
				BudgetCeiling: decimal.RequireFromString("500.00"),
			},
		},
	}
}

func TestCreateCycle(t *testing.T) {
	t.Parallel()

	svc, _ := newCycleService(t)
	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, enums.CycleStatusDraft, created.Status)
	require.Len(t, created.Markets, 1)
	assert.True(t, created.Markets[0].BudgetCeiling.Equal(decimal.RequireFromString("500.00")))
}

func TestCreateCycleValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newCycleService(t)

	inverted := validCreateInput()
	inverted.StartsAt, inverted.EndsAt = inverted.EndsAt, inverted.StartsAt
	_, err := svc.Create(context.Background(), inverted)
	require.Error(t, err)

	noMarkets := validCreateInput()
	noMarkets.Markets = nil
	_, err = svc.Create(context.Background(), noMarkets)
	require.Error(t, err)

	duplicated := validCreateInput()
	duplicated.Markets = append(duplicated.Markets, duplicated.Markets[0])
	_, err = svc.Create(context.Background(), duplicated)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCycleLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newCycleService(t)
	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	opened, err := svc.Open(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CycleStatusOpen, opened.Status)

	closed, err := svc.Close(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CycleStatusClosed, closed.Status)

	// Closing twice is a state conflict.
	_, err = svc.Close(context.Background(), created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCeilingLookupAndUpdate(t *testing.T) {
	t.Parallel()

	svc, _ := newCycleService(t)
	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	marketID := created.Markets[0].MarketID

	pair, err := svc.CeilingFor(context.Background(), created.ID, marketID)
	require.NoError(t, err)
	assert.True(t, pair.BudgetCeiling.Equal(decimal.RequireFromString("500.00")))

	updated, err := svc.UpdateCeiling(context.Background(), created.ID, marketID, decimal.RequireFromString("650.00"))
	require.NoError(t, err)
	assert.True(t, updated.BudgetCeiling.Equal(decimal.RequireFromString("650.00")))

	_, err = svc.UpdateCeiling(context.Background(), created.ID, uuid.New(), decimal.RequireFromString("100.00"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListFiltersByStatus(t *testing.T) {
	t.Parallel()

	svc, _ := newCycleService(t)
	first, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), first.ID)
	require.NoError(t, err)

	open, err := svc.List(context.Background(), "open")
	require.NoError(t, err)
	assert.Len(t, open, 1)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(context.Background(), "archived")
	require.Error(t, err)
}
