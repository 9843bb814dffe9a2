package models

import (
	"time"
)

// EventSettingModel is the GORM model for event_settings table
type EventSettingModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	EventID    uint      `gorm:"column:event_id;not null;uniqueIndex:idx_event_ns_key"`
	Namespace  string    `gorm:"column:namespace;type:varchar(100);not null;uniqueIndex:idx_event_ns_key"`
	SettingKey string    `gorm:"column:setting_key;type:varchar(100);not null;uniqueIndex:idx_event_ns_key"`
	Value      string    `gorm:"column:value;type:text"`
	ValueType  string    `gorm:"column:value_type;type:varchar(20);not null;default:'string'"`
	Version    int       `gorm:"column:version;default:1"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (EventSettingModel) TableName() string {
	return "event_settings"
}
