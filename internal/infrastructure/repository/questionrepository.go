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

// QuestionRepository implements catalog.QuestionRepository
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *catalog.Question) error {
	model := mappers.QuestionToModel(q)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	q.SetID(model.ID)
	for idx, o := range q.Options() {
		o.SetID(model.Options[idx].ID)
	}
	return nil
}

func (r *QuestionRepository) Update(ctx context.Context, q *catalog.Question) error {
	model := mappers.QuestionToModel(q)

	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.QuestionModel{}).
			Scopes(db.ForEvent(q.EventID())).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"question":   model.Question,
				"type":       model.Type,
				"required":   model.Required,
				"position":   model.Position,
				"item_ids":   model.ItemIDs,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update question: %w", result.Error)
		}

		keep := make([]uint, 0, len(model.Options))
		for idx := range model.Options {
			om := &model.Options[idx]
			if err := tx.Save(om).Error; err != nil {
				return fmt.Errorf("failed to save option: %w", err)
			}
			q.Options()[idx].SetID(om.ID)
			keep = append(keep, om.ID)
		}

		del := tx.Where("question_id = ?", model.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&models.QuestionOptionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		return nil
	})
}

func (r *QuestionRepository) Delete(ctx context.Context, eventID, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(db.ForEvent(eventID)).Delete(&models.QuestionModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete question: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return catalog.ErrQuestionNotFound
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOptionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		return nil
	})
}

func (r *QuestionRepository) GetByID(ctx context.Context, eventID, id uint) (*catalog.Question, error) {
	var model models.QuestionModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Options").
		Scopes(db.ForEvent(eventID)).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return mappers.QuestionToDomain(&model), nil
}

func (r *QuestionRepository) ListByEvent(ctx context.Context, eventID uint) ([]*catalog.Question, error) {
	var modelList []*models.QuestionModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Options").
		Scopes(db.ForEvent(eventID), db.ByPosition()).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return mappers.QuestionsToDomain(modelList), nil
}
