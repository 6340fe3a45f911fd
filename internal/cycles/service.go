package cycles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/logger"
)

// Service manages cycle lifecycle and per-market budget ceilings.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Cycle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cycle, error)
	List(ctx context.Context, rawStatus string) ([]models.Cycle, error)
	Open(ctx context.Context, id uuid.UUID) (*models.Cycle, error)
	Close(ctx context.Context, id uuid.UUID) (*models.Cycle, error)
	CeilingFor(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error)
	UpdateCeiling(ctx context.Context, cycleID, marketID uuid.UUID, ceiling decimal.Decimal) (*models.CycleMarket, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

// NewService builds the cycles service.
func NewService(repo Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cycles repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, log: log}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Cycle, error) {
	if !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle must end after it starts")
	}
	if len(input.Markets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle needs at least one market")
	}

	seen := map[uuid.UUID]bool{}
	markets := make([]models.CycleMarket, 0, len(input.Markets))
	for _, market := range input.Markets {
		if market.MarketID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "market id required")
		}
		if seen[market.MarketID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate market in cycle")
		}
		if market.BudgetCeiling.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget ceiling cannot be negative")
		}
		seen[market.MarketID] = true
		markets = append(markets, models.CycleMarket{
			MarketID:      market.MarketID,
			MarketName:    market.MarketName,
			BudgetCeiling: market.BudgetCeiling,
		})
	}

	cycle := &models.Cycle{
		Name:     input.Name,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		Status:   enums.CycleStatusDraft,
		Markets:  markets,
	}
	created, err := s.repo.Create(ctx, cycle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cycle")
	}

	infoCtx := s.log.WithFields(ctx, map[string]any{
		"cycle_id": created.ID.String(),
		"markets":  len(created.Markets),
	})
	s.log.Info(infoCtx, "cycle created")
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id required")
	}
	return s.find(ctx, id)
}

func (s *service) List(ctx context.Context, rawStatus string) ([]models.Cycle, error) {
	var status *enums.CycleStatus
	if rawStatus != "" {
		parsed, err := enums.ParseCycleStatus(rawStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = &parsed
	}
	cycles, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cycles")
	}
	return cycles, nil
}

func (s *service) Open(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	return s.transition(ctx, id, enums.CycleStatusDraft, enums.CycleStatusOpen)
}

func (s *service) Close(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	return s.transition(ctx, id, enums.CycleStatusOpen, enums.CycleStatusClosed)
}

func (s *service) CeilingFor(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error) {
	if cycleID == uuid.Nil || marketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id and market id required")
	}
	pair, err := s.repo.FindCycleMarket(ctx, cycleID, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cycle market")
	}
	return pair, nil
}

func (s *service) UpdateCeiling(ctx context.Context, cycleID, marketID uuid.UUID, ceiling decimal.Decimal) (*models.CycleMarket, error) {
	if ceiling.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget ceiling cannot be negative")
	}
	if _, err := s.CeilingFor(ctx, cycleID, marketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "market is not part of this cycle")
		}
		return nil, err
	}
	if err := s.repo.UpdateCeiling(ctx, cycleID, marketID, ceiling); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update budget ceiling")
	}
	return s.repo.FindCycleMarket(ctx, cycleID, marketID)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, from, to enums.CycleStatus) (*models.Cycle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cycle id required")
	}
	cycle, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if cycle.Status != from {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cycle is %s, expected %s", cycle.Status, from))
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cycle status")
	}
	return s.find(ctx, id)
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	cycle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cycle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cycle")
	}
	return cycle, nil
}
