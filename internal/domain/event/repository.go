package event

import "context"

type Repository interface {
	CreateOrganizer(ctx context.Context, o *Organizer) error
	GetOrganizerBySlug(ctx context.Context, slug string) (*Organizer, error)
	GetOrganizerByID(ctx context.Context, id uint) (*Organizer, error)
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	// GetBySlugs resolves the (organizer, event) pair used in URLs.
	GetBySlugs(ctx context.Context, organizerSlug, eventSlug string) (*Event, error)
}
