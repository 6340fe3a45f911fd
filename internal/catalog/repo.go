package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) FindOfferByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND market_id = ?", cycleID, marketID).
		Order("created_at ASC, id ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) UpdateOffer(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Offer{}).Error
}

func (r *repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *repository) FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var suppliers []models.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}
