package order

import (
	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

const (
	EventTypePlaced  = "order.placed"
	EventTypePaid    = "order.paid"
	EventTypeExpired = "order.expired"
)

type PlacedEvent struct {
	events.BaseEvent
	EventID  uint            `json:"event_id"`
	Email    string          `json:"email"`
	Total    decimal.Decimal `json:"total"`
	Provider string          `json:"provider"`
}

type PaidEvent struct {
	events.BaseEvent
	EventID  uint   `json:"event_id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type ExpiredEvent struct {
	events.BaseEvent
	EventID uint `json:"event_id"`
}

func base(code, eventType string) events.BaseEvent {
	return events.BaseEvent{AggregateID: code, EventType: eventType, OccurredAt: biztime.NowUTC()}
}

func NewPlacedEvent(o *Order) *PlacedEvent {
	return &PlacedEvent{
		BaseEvent: base(o.Code(), EventTypePlaced),
		EventID:   o.EventID(),
		Email:     o.Email(),
		Total:     o.Total(),
		Provider:  o.PaymentProvider(),
	}
}

func NewPaidEvent(o *Order) *PaidEvent {
	return &PaidEvent{
		BaseEvent: base(o.Code(), EventTypePaid),
		EventID:   o.EventID(),
		Email:     o.Email(),
		Provider:  o.PaymentProvider(),
	}
}

func NewExpiredEvent(o *Order) *ExpiredEvent {
	return &ExpiredEvent{BaseEvent: base(o.Code(), EventTypeExpired), EventID: o.EventID()}
}
