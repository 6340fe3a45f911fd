package composition

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrofeira/feira-backend/pkg/db/models"
	"github.com/agrofeira/feira-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a composition repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, composition *models.Composition) (*models.Composition, error) {
	if err := r.db.WithContext(ctx).Create(composition).Error; err != nil {
		return nil, err
	}
	return composition, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Composition, error) {
	var composition models.Composition
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&composition).Error
	if err != nil {
		return nil, err
	}
	return &composition, nil
}

func (r *repository) ListByCycleMarket(ctx context.Context, cycleID, marketID uuid.UUID, params pagination.Params) (*CompositionList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("cycle_id = ? AND market_id = ?", cycleID, marketID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Composition
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &CompositionList{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	list.Compositions = rows
	return list, nil
}
