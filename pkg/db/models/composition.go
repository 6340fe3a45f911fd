package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/pkg/enums"
)

// Composition is a committed allocation of offers for one (cycle, market)
// session, with the audit totals computed at commit time.
type Composition struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CycleID       uuid.UUID             `gorm:"column:cycle_id;type:uuid;not null;index"`
	MarketID      uuid.UUID             `gorm:"column:market_id;type:uuid;not null;index"`
	Kind          enums.CompositionKind `gorm:"column:kind;type:composition_kind;not null"`
	ItemCount     int                   `gorm:"column:item_count;not null"`
	UnitCount     int                   `gorm:"column:unit_count;not null"`
	MonetaryTotal decimal.Decimal       `gorm:"column:monetary_total;type:numeric(12,2);not null"`
	BudgetCeiling decimal.Decimal       `gorm:"column:budget_ceiling;type:numeric(12,2);not null"`
	AboveCeiling  bool                  `gorm:"column:above_ceiling;not null;default:false"`
	CommittedBy   string                `gorm:"column:committed_by"`
	Items         []CompositionItem     `gorm:"foreignKey:CompositionID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
