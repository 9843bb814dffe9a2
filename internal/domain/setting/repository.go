package setting

import (
	"context"
)

// Repository persists event settings.
type Repository interface {
	GetByKey(ctx context.Context, eventID uint, namespace, key string) (*EventSetting, error)
	GetByNamespace(ctx context.Context, eventID uint, namespace string) ([]*EventSetting, error)
	GetByEvent(ctx context.Context, eventID uint) ([]*EventSetting, error)
	// Upsert creates or updates the row identified by (event, namespace, key).
	Upsert(ctx context.Context, s *EventSetting) error
	Delete(ctx context.Context, eventID uint, namespace, key string) error
}
