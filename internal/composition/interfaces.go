package composition

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/pagination"
)

// Repository defines persistence operations for committed compositions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, composition *models.Composition) (*models.Composition, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Composition, error)
	ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID, params pagination.Params) (*CompositionList, error)
}

// OfferLoader loads the offer catalog for a (cycle, market) pair.
type OfferLoader interface {
	ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) ([]models.Offer, error)
}

// CeilingLoader resolves the budget ceiling for a (cycle, market) pair.
type CeilingLoader interface {
	CeilingFor(ctx context.Context, cycleID, marketID uuid.UUID) (*models.CycleMarket, error)
}

// Drafts is the draft persistence surface the service depends on.
type Drafts interface {
	Save(ctx context.Context, snap DraftSnapshot) error
	Load(ctx context.Context, cycleID, marketID uuid.UUID) (DraftSnapshot, error)
	Discard(ctx context.Context, cycleID, marketID uuid.UUID) error
}
