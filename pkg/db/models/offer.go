package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/pkg/enums"
)

// Offer is a sellable variant of a base product inside one (cycle, market)
// catalog: its own price, supplier, unit and availability. Immutable for the
// duration of a composition session.
type Offer struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CycleID       uuid.UUID           `gorm:"column:cycle_id;type:uuid;not null;index"`
	MarketID      uuid.UUID           `gorm:"column:market_id;type:uuid;not null;index"`
	SupplierID    uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	SupplierName  string              `gorm:"column:supplier_name;not null"`
	BaseProduct   string              `gorm:"column:base_product;not null"`
	DisplayName   string              `gorm:"column:display_name;not null"`
	Unit          enums.OfferUnit     `gorm:"column:unit;type:offer_unit;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	AvailableQty  int                 `gorm:"column:available_qty;not null"`
	Certification enums.Certification `gorm:"column:certification;type:certification;not null"`
	FarmingType   enums.FarmingType   `gorm:"column:farming_type;type:farming_type;not null"`
	Keywords      pq.StringArray      `gorm:"column:keywords;type:text[];default:ARRAY[]::text[]"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
