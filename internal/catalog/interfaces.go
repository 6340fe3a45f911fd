package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
)

// Repository defines persistence operations for offers and suppliers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	FindOfferByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) ([]models.Offer, error)
	UpdateOffer(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error)
}
