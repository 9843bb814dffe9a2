package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/ticketry/internal/domain/setting"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/db"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// EventSettingRepository implements setting.Repository
type EventSettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.EventSettingMapper
}

func NewEventSettingRepository(db *gorm.DB, logger logger.Interface) *EventSettingRepository {
	return &EventSettingRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewEventSettingMapper(),
	}
}

func (r *EventSettingRepository) GetByKey(ctx context.Context, eventID uint, namespace, key string) (*setting.EventSetting, error) {
	var model models.EventSettingModel

	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForEvent(eventID)).
		Where("namespace = ? AND setting_key = ?", namespace, key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrSettingNotFound
		}
		r.logger.Errorw("failed to get setting by key", "event_id", eventID, "namespace", namespace, "key", key, "error", err)
		return nil, fmt.Errorf("failed to get setting by key: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

func (r *EventSettingRepository) GetByNamespace(ctx context.Context, eventID uint, namespace string) ([]*setting.EventSetting, error) {
	var modelList []*models.EventSettingModel

	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForEvent(eventID)).
		Where("namespace = ?", namespace).
		Order("setting_key ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get settings by namespace", "event_id", eventID, "namespace", namespace, "error", err)
		return nil, fmt.Errorf("failed to get settings by namespace: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

func (r *EventSettingRepository) GetByEvent(ctx context.Context, eventID uint) ([]*setting.EventSetting, error) {
	var modelList []*models.EventSettingModel

	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForEvent(eventID)).
		Order("namespace ASC, setting_key ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get settings by event", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to get settings by event: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

// Upsert updates a loaded setting by id and inserts new ones, merging with a
// concurrently inserted row for the same key.
func (r *EventSettingRepository) Upsert(ctx context.Context, s *setting.EventSetting) error {
	model := r.mapper.ToModel(s)

	if model.ID != 0 {
		err := db.GetTxFromContext(ctx, r.db).
			Model(&models.EventSettingModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"value":      model.Value,
				"value_type": model.ValueType,
				"version":    model.Version,
				"updated_at": model.UpdatedAt,
			}).Error
		if err != nil {
			r.logger.Errorw("failed to update setting", "id", model.ID, "key", s.Key(), "error", err)
			return fmt.Errorf("failed to update setting: %w", err)
		}
		return nil
	}

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "namespace"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "version", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert setting", "event_id", s.EventID(), "namespace", s.Namespace(), "key", s.Key(), "error", err)
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	if s.ID() == 0 {
		s.SetID(model.ID)
	}

	return nil
}

func (r *EventSettingRepository) Delete(ctx context.Context, eventID uint, namespace, key string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForEvent(eventID)).
		Where("namespace = ? AND setting_key = ?", namespace, key).
		Delete(&models.EventSettingModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete setting", "event_id", eventID, "namespace", namespace, "key", key, "error", result.Error)
		return fmt.Errorf("failed to delete setting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return setting.ErrSettingNotFound
	}

	return nil
}
