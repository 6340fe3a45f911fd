package cycles

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cycles repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, cycle *models.Cycle) (*models.Cycle, error) {
	if err := r.db.WithContext(ctx).Create(cycle).Error; err != nil {
		return nil, err
	}
	return cycle, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	var cycle models.Cycle
	err := r.db.WithContext(ctx).
		Preload("Markets").
		Where("id = ?", id).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *repository) List(ctx context.Context, status *enums.CycleStatus) ([]models.Cycle, error) {
	query := r.db.WithContext(ctx).
		Preload("Markets").
		Order("starts_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var cycles []models.Cycle
	if err := query.Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CycleStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Cycle{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) FindCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error) {
	var pair models.CycleMarket
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND market_id = ?", cycleID, marketID).
		First(&pair).Error
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

func (r *repository) UpdateCeiling(ctx context.Context, cycleID, marketID uuid.UUID, ceiling decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.CycleMarket{}).
		Where("cycle_id = ? AND market_id = ?", cycleID, marketID).
		Update("budget_ceiling", ceiling).Error
}
