// Package common holds lookups shared by the presale and control usecases.
package common

import (
	"context"
	"errors"

	"github.com/orris-inc/ticketry/internal/domain/event"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
)

// EventScope is an event together with its organizer.
type EventScope struct {
	Event     *event.Event
	Organizer *event.Organizer
}

// PaymentEvent is the event as payment providers see it. The name is
// localized for locale.
func (s *EventScope) PaymentEvent(locale string) payment.EventInfo {
	return payment.EventInfo{
		ID:            s.Event.ID(),
		OrganizerSlug: s.Organizer.Slug(),
		Slug:          s.Event.Slug(),
		Name:          s.Event.Name().Localize(locale),
		Currency:      s.Event.Currency(),
	}
}

type EventResolver struct {
	events event.Repository
}

func NewEventResolver(events event.Repository) *EventResolver {
	return &EventResolver{events: events}
}

// BySlugs resolves the organizer and event path segments. Unknown slugs
// give a not-found AppError.
func (r *EventResolver) BySlugs(ctx context.Context, organizerSlug, eventSlug string) (*EventScope, error) {
	org, err := r.events.GetOrganizerBySlug(ctx, organizerSlug)
	if err != nil {
		return nil, notFound(err)
	}
	ev, err := r.events.GetBySlugs(ctx, organizerSlug, eventSlug)
	if err != nil {
		return nil, notFound(err)
	}
	return &EventScope{Event: ev, Organizer: org}, nil
}

func (r *EventResolver) ByID(ctx context.Context, id uint) (*EventScope, error) {
	ev, err := r.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	org, err := r.events.GetOrganizerByID(ctx, ev.OrganizerID())
	if err != nil {
		return nil, notFound(err)
	}
	return &EventScope{Event: ev, Organizer: org}, nil
}

func notFound(err error) error {
	if errors.Is(err, event.ErrEventNotFound) || errors.Is(err, event.ErrOrganizerNotFound) {
		return apperrors.NewNotFoundError(err.Error())
	}
	return err
}
