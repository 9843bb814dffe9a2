package db

import (
	"gorm.io/gorm"
)

// ForEvent restricts a query to rows owned by one event.
func ForEvent(eventID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("event_id = ?", eventID)
	}
}

// ByPosition orders sortable catalog rows the way the control panel lists
// them: position first, then insertion order.
func ByPosition() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC").Order("id ASC")
	}
}
