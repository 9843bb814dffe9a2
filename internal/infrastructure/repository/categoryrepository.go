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

// CategoryRepository implements catalog.CategoryRepository
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	model := mappers.CategoryToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *catalog.Category) error {
	model := mappers.CategoryToModel(c)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.CategoryModel{}).
		Scopes(db.ForEvent(c.EventID())).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"position":   model.Position,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	return nil
}

// Delete detaches the category's items before removing it.
func (r *CategoryRepository) Delete(ctx context.Context, eventID, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ItemModel{}).
			Where("event_id = ? AND category_id = ?", eventID, id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach items: %w", err)
		}
		result := tx.Scopes(db.ForEvent(eventID)).Delete(&models.CategoryModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return catalog.ErrCategoryNotFound
		}
		return nil
	})
}

func (r *CategoryRepository) GetByID(ctx context.Context, eventID, id uint) (*catalog.Category, error) {
	var model models.CategoryModel
	err := db.GetTxFromContext(ctx, r.db).Scopes(db.ForEvent(eventID)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return mappers.CategoryToDomain(&model), nil
}

func (r *CategoryRepository) ListByEvent(ctx context.Context, eventID uint) ([]*catalog.Category, error) {
	var modelList []*models.CategoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForEvent(eventID), db.ByPosition()).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return mappers.CategoriesToDomain(modelList), nil
}
