package mappers

import (
	"github.com/orris-inc/ticketry/internal/domain/event"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
)

func OrganizerToModel(o *event.Organizer) *models.OrganizerModel {
	return &models.OrganizerModel{
		ID:        o.ID(),
		Slug:      o.Slug(),
		Name:      o.Name(),
		CreatedAt: o.CreatedAt(),
	}
}

func OrganizerToDomain(m *models.OrganizerModel) *event.Organizer {
	return event.ReconstructOrganizer(m.ID, m.Slug, m.Name, m.CreatedAt)
}

func EventToModel(e *event.Event) *models.EventModel {
	return &models.EventModel{
		ID:          e.ID(),
		OrganizerID: e.OrganizerID(),
		Slug:        e.Slug(),
		Name:        e.Name(),
		Currency:    e.Currency(),
		Locale:      e.Locale(),
		DateFrom:    e.DateFrom(),
		PresaleEnd:  e.PresaleEnd(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

func EventToDomain(m *models.EventModel) *event.Event {
	return event.ReconstructEvent(
		m.ID,
		m.OrganizerID,
		m.Slug,
		m.Name,
		m.Currency,
		m.Locale,
		m.DateFrom.UTC(),
		m.PresaleEnd,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
