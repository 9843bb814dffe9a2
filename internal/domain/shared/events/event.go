package events

import (
	"time"
)

// DomainEvent is something that happened to an aggregate and that other
// parts of the application react to after the fact.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetOccurredAt() time.Time
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// HandlerFunc reacts to one event. Returned errors are logged, never
// propagated to the publisher.
type HandlerFunc func(event DomainEvent) error

// Publisher publishes domain events
type Publisher interface {
	Publish(event DomainEvent) error
}
