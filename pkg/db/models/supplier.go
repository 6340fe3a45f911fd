package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrofeira/feira-backend/pkg/enums"
)

// Supplier is a producer that delivers offers into cycles.
type Supplier struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Document    string            `gorm:"column:document;not null;uniqueIndex"`
	FarmingType enums.FarmingType `gorm:"column:farming_type;type:farming_type;not null"`
	City        string            `gorm:"column:city"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
