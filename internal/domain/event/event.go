package event

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
	"github.com/orris-inc/ticketry/internal/shared/money"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]*$`)

// Organizer owns events. Its slug is the first path segment of every
// presale URL.
type Organizer struct {
	id        uint
	slug      string
	name      string
	createdAt time.Time
}

func NewOrganizer(slug, name string) (*Organizer, error) {
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("organizer name is required")
	}
	return &Organizer{slug: slug, name: name, createdAt: biztime.NowUTC()}, nil
}

func ReconstructOrganizer(id uint, slug, name string, createdAt time.Time) *Organizer {
	return &Organizer{id: id, slug: slug, name: name, createdAt: createdAt}
}

func (o *Organizer) ID() uint             { return o.id }
func (o *Organizer) Slug() string         { return o.slug }
func (o *Organizer) Name() string         { return o.name }
func (o *Organizer) CreatedAt() time.Time { return o.createdAt }
func (o *Organizer) SetID(id uint)        { o.id = id }

// Event is one sellable occasion. Currency and locale apply to every order
// placed for it.
type Event struct {
	id          uint
	organizerID uint
	slug        string
	name        i18n.String
	currency    string
	locale      string
	dateFrom    time.Time
	presaleEnd  *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewEvent(organizerID uint, slug string, name i18n.String, currency, locale string, dateFrom time.Time) (*Event, error) {
	if organizerID == 0 {
		return nil, fmt.Errorf("organizer is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	if name.IsEmpty() {
		return nil, fmt.Errorf("event name is required")
	}
	if _, err := money.Parse(currency); err != nil {
		return nil, err
	}
	if locale == "" {
		locale = i18n.FallbackLocale
	}

	now := biztime.NowUTC()
	return &Event{
		organizerID: organizerID,
		slug:        slug,
		name:        name,
		currency:    strings.ToUpper(currency),
		locale:      locale,
		dateFrom:    dateFrom.UTC(),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructEvent(
	id, organizerID uint,
	slug string,
	name i18n.String,
	currency, locale string,
	dateFrom time.Time,
	presaleEnd *time.Time,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:          id,
		organizerID: organizerID,
		slug:        slug,
		name:        name,
		currency:    currency,
		locale:      locale,
		dateFrom:    dateFrom,
		presaleEnd:  presaleEnd,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e *Event) ID() uint               { return e.id }
func (e *Event) OrganizerID() uint      { return e.organizerID }
func (e *Event) Slug() string           { return e.slug }
func (e *Event) Name() i18n.String      { return e.name }
func (e *Event) Currency() string       { return e.currency }
func (e *Event) Locale() string         { return e.locale }
func (e *Event) DateFrom() time.Time    { return e.dateFrom }
func (e *Event) PresaleEnd() *time.Time { return e.presaleEnd }
func (e *Event) CreatedAt() time.Time   { return e.createdAt }
func (e *Event) UpdatedAt() time.Time   { return e.updatedAt }
func (e *Event) SetID(id uint)          { e.id = id }

func (e *Event) SetPresaleEnd(t *time.Time) {
	if t != nil {
		utc := t.UTC()
		t = &utc
	}
	e.presaleEnd = t
	e.updatedAt = biztime.NowUTC()
}

// PresaleOpen reports whether new orders are accepted at now.
func (e *Event) PresaleOpen(now time.Time) bool {
	return e.presaleEnd == nil || now.Before(*e.presaleEnd)
}
