package cycles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketInput attaches one market with its budget ceiling to a new cycle.
type MarketInput struct {
	MarketID      uuid.UUID       `json:"market_id" validate:"required"`
	MarketName    string          `json:"market_name" validate:"required"`
	BudgetCeiling decimal.Decimal `json:"budget_ceiling" validate:"required"`
}

// CreateInput carries a new cycle with its participating markets.
type CreateInput struct {
	Name     string        `json:"name" validate:"required"`
	StartsAt time.Time     `json:"starts_at" validate:"required"`
	EndsAt   time.Time     `json:"ends_at" validate:"required"`
	Markets  []MarketInput `json:"markets" validate:"required,min=1,dive"`
}

// UpdateCeilingInput carries a new ceiling for one (cycle, market) pair.
type UpdateCeilingInput struct {
	BudgetCeiling decimal.Decimal `json:"budget_ceiling" validate:"required"`
}
