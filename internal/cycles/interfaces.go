package cycles

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/enums"
)

// Repository defines persistence operations for cycles and their markets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, cycle *models.Cycle) (*models.Cycle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cycle, error)
	List(ctx context.Context, status *enums.CycleStatus) ([]models.Cycle, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CycleStatus) error
	FindCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error)
	UpdateCeiling(ctx context.Context, cycleID, marketID uuid.UUID, ceiling decimal.Decimal) error
}
