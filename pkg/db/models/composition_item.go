package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrofeira/feira-backend/pkg/enums"
)

// CompositionItem snapshots one selected offer at commit time. Price and
// availability are copied so the record survives later catalog edits.
type CompositionItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompositionID uuid.UUID       `gorm:"column:composition_id;type:uuid;not null;index"`
	OfferID       uuid.UUID       `gorm:"column:offer_id;type:uuid;not null"`
	SupplierID    uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	BaseProduct   string          `gorm:"column:base_product;not null"`
	DisplayName   string          `gorm:"column:display_name;not null"`
	Unit          enums.OfferUnit `gorm:"column:unit;type:offer_unit;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	AvailableQty  int             `gorm:"column:available_qty;not null"`
	OrderedQty    int             `gorm:"column:ordered_qty;not null"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
