package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/db"
)

// QuotaRepository implements catalog.QuotaRepository
type QuotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

func (r *QuotaRepository) Create(ctx context.Context, q *catalog.Quota) error {
	model := mappers.QuotaToModel(q)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create quota: %w", err)
	}
	q.SetID(model.ID)
	return nil
}

func (r *QuotaRepository) Update(ctx context.Context, q *catalog.Quota) error {
	model := mappers.QuotaToModel(q)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.QuotaModel{}).
		Scopes(db.ForEvent(q.EventID())).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"size":          model.Size,
			"item_ids":      model.ItemIDs,
			"variation_ids": model.VariationIDs,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update quota: %w", result.Error)
	}
	return nil
}

func (r *QuotaRepository) Delete(ctx context.Context, eventID, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Scopes(db.ForEvent(eventID)).Delete(&models.QuotaModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quota: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrQuotaNotFound
	}
	return nil
}

func (r *QuotaRepository) GetByID(ctx context.Context, eventID, id uint) (*catalog.Quota, error) {
	var model models.QuotaModel
	err := db.GetTxFromContext(ctx, r.db).Scopes(db.ForEvent(eventID)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrQuotaNotFound
		}
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}
	return mappers.QuotaToDomain(&model), nil
}

func (r *QuotaRepository) ListByEvent(ctx context.Context, eventID uint) ([]*catalog.Quota, error) {
	var modelList []*models.QuotaModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForEvent(eventID)).
		Order("id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quotas: %w", err)
	}
	return mappers.QuotasToDomain(modelList), nil
}
