package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CycleMarket attaches a market to a cycle and fixes the budget ceiling for
// compositions assembled against that pair. The ceiling is soft: commits above
// it are allowed once explicitly confirmed.
type CycleMarket struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CycleID       uuid.UUID       `gorm:"column:cycle_id;type:uuid;not null;index:idx_cycle_market,unique"`
	MarketID      uuid.UUID       `gorm:"column:market_id;type:uuid;not null;index:idx_cycle_market,unique"`
	MarketName    string          `gorm:"column:market_name;not null"`
	BudgetCeiling decimal.Decimal `gorm:"column:budget_ceiling;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
