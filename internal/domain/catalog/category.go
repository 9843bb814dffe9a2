package catalog

import (
	"time"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

type Category struct {
	id        uint
	eventID   uint
	name      i18n.String
	position  int
	createdAt time.Time
	updatedAt time.Time
}

func NewCategory(eventID uint, name i18n.String, position int) (*Category, error) {
	if name.IsEmpty() {
		return nil, ErrNameRequired
	}
	now := biztime.NowUTC()
	return &Category{eventID: eventID, name: name, position: position, createdAt: now, updatedAt: now}, nil
}

func ReconstructCategory(id, eventID uint, name i18n.String, position int, createdAt, updatedAt time.Time) *Category {
	return &Category{id: id, eventID: eventID, name: name, position: position, createdAt: createdAt, updatedAt: updatedAt}
}

func (c *Category) ID() uint             { return c.id }
func (c *Category) EventID() uint        { return c.eventID }
func (c *Category) Name() i18n.String    { return c.name }
func (c *Category) Position() int        { return c.position }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }
func (c *Category) SetID(id uint)        { c.id = id }

func (c *Category) SetPosition(p int) {
	c.position = p
	c.updatedAt = biztime.NowUTC()
}

func (c *Category) Rename(name i18n.String) error {
	if name.IsEmpty() {
		return ErrNameRequired
	}
	c.name = name
	c.updatedAt = biztime.NowUTC()
	return nil
}
