package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/db"
)

// ItemRepository implements catalog.ItemRepository
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, i *catalog.Item) error {
	model := mappers.ItemToModel(i)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	i.SetID(model.ID)
	for idx, v := range i.Variations() {
		v.SetID(model.Variations[idx].ID)
	}
	return nil
}

// Update saves the item row, upserts its variations and removes stored
// variations the item no longer has.
func (r *ItemRepository) Update(ctx context.Context, i *catalog.Item) error {
	model := mappers.ItemToModel(i)

	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ItemModel{}).
			Scopes(db.ForEvent(i.EventID())).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"category_id":   model.CategoryID,
				"name":          model.Name,
				"default_price": model.DefaultPrice,
				"tax_rate":      model.TaxRate,
				"active":        model.Active,
				"admission":     model.Admission,
				"position":      model.Position,
				"updated_at":    model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update item: %w", result.Error)
		}

		keep := make([]uint, 0, len(model.Variations))
		for idx := range model.Variations {
			vm := &model.Variations[idx]
			if err := tx.Omit(clause.Associations).Save(vm).Error; err != nil {
				return fmt.Errorf("failed to save variation: %w", err)
			}
			i.Variations()[idx].SetID(vm.ID)
			keep = append(keep, vm.ID)
		}

		del := tx.Where("item_id = ?", model.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&models.ItemVariationModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete variations: %w", err)
		}
		return nil
	})
}

func (r *ItemRepository) Delete(ctx context.Context, eventID, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(db.ForEvent(eventID)).Delete(&models.ItemModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return catalog.ErrItemNotFound
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemVariationModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete variations: %w", err)
		}
		return nil
	})
}

func (r *ItemRepository) GetByID(ctx context.Context, eventID, id uint) (*catalog.Item, error) {
	var model models.ItemModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Variations").
		Scopes(db.ForEvent(eventID)).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return mappers.ItemToDomain(&model), nil
}

func (r *ItemRepository) ListByEvent(ctx context.Context, eventID uint) ([]*catalog.Item, error) {
	var modelList []*models.ItemModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Variations").
		Scopes(db.ForEvent(eventID), db.ByPosition()).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return mappers.ItemsToDomain(modelList), nil
}
