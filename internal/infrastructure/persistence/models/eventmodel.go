package models

import (
	"time"

	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

// OrganizerModel is the GORM model for organizers table
type OrganizerModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Slug      string    `gorm:"column:slug;type:varchar(50);not null;uniqueIndex"`
	Name      string    `gorm:"column:name;type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrganizerModel) TableName() string {
	return "organizers"
}

// EventModel is the GORM model for events table
type EventModel struct {
	ID          uint        `gorm:"primaryKey;autoIncrement"`
	OrganizerID uint        `gorm:"column:organizer_id;not null;uniqueIndex:idx_event_slug"`
	Slug        string      `gorm:"column:slug;type:varchar(50);not null;uniqueIndex:idx_event_slug"`
	Name        i18n.String `gorm:"column:name;type:text;not null"`
	Currency    string      `gorm:"column:currency;type:varchar(3);not null"`
	Locale      string      `gorm:"column:locale;type:varchar(10);not null;default:'en'"`
	DateFrom    time.Time   `gorm:"column:date_from;not null"`
	PresaleEnd  *time.Time  `gorm:"column:presale_end"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (EventModel) TableName() string {
	return "events"
}
