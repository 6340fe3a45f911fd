package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrofeira/feira-backend/pkg/enums"
)

// Cycle represents a time-boxed sales window during which offers are
// collected and compositions assembled.
type Cycle struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string            `gorm:"column:name;not null"`
	StartsAt  time.Time         `gorm:"column:starts_at;not null"`
	EndsAt    time.Time         `gorm:"column:ends_at;not null"`
	Status    enums.CycleStatus `gorm:"column:status;type:cycle_status;not null;default:'draft'"`
	Markets   []CycleMarket     `gorm:"foreignKey:CycleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
