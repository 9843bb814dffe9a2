package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketry/internal/domain/event"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/db"
)

// EventRepository implements event.Repository
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateOrganizer(ctx context.Context, o *event.Organizer) error {
	model := mappers.OrganizerToModel(o)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create organizer: %w", err)
	}
	o.SetID(model.ID)
	return nil
}

func (r *EventRepository) GetOrganizerBySlug(ctx context.Context, slug string) (*event.Organizer, error) {
	var model models.OrganizerModel
	if err := db.GetTxFromContext(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to get organizer: %w", err)
	}
	return mappers.OrganizerToDomain(&model), nil
}

func (r *EventRepository) GetOrganizerByID(ctx context.Context, id uint) (*event.Organizer, error) {
	var model models.OrganizerModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to get organizer: %w", err)
	}
	return mappers.OrganizerToDomain(&model), nil
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	model := mappers.EventToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	var model models.EventModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return mappers.EventToDomain(&model), nil
}

func (r *EventRepository) GetBySlugs(ctx context.Context, organizerSlug, eventSlug string) (*event.Event, error) {
	var model models.EventModel
	err := db.GetTxFromContext(ctx, r.db).
		Joins("JOIN organizers ON organizers.id = events.organizer_id").
		Where("organizers.slug = ? AND events.slug = ?", organizerSlug, eventSlug).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by slugs: %w", err)
	}
	return mappers.EventToDomain(&model), nil
}
