package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Webhook event types the host reacts to.
const (
	EventSessionCompleted          = "checkout.session.completed"
	EventSessionAsyncSucceeded     = "checkout.session.async_payment_succeeded"
	EventSessionAsyncPaymentFailed = "checkout.session.async_payment_failed"
	EventSessionExpired            = "checkout.session.expired"
)

type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

// AffectsOrder reports whether the event can change the order's state.
func (e *WebhookEvent) AffectsOrder() bool {
	switch e.Type {
	case EventSessionCompleted, EventSessionAsyncSucceeded, EventSessionAsyncPaymentFailed:
		return e.Session != nil && e.Session.OrderCode != ""
	}
	return false
}

type webhookKey struct{}

// WithWebhookEvent tells a payment performed under ctx which webhook
// triggered it.
func WithWebhookEvent(ctx context.Context, evt *WebhookEvent) context.Context {
	return context.WithValue(ctx, webhookKey{}, evt)
}

func webhookEventFrom(ctx context.Context) *WebhookEvent {
	evt, _ := ctx.Value(webhookKey{}).(*WebhookEvent)
	return evt
}

// reportsFailure is true for an async_payment_failed event about sess.
func (e *WebhookEvent) reportsFailure(sess *CheckoutSession) bool {
	return e != nil && e.Type == EventSessionAsyncPaymentFailed &&
		e.Session != nil && e.Session.ID == sess.ID
}

// ParseWebhook verifies the Stripe-Signature header and decodes checkout
// session events. Other event types come back without a session.
func ParseWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: invalid webhook: %w", err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch out.Type {
	case EventSessionCompleted, EventSessionAsyncSucceeded, EventSessionAsyncPaymentFailed, EventSessionExpired:
		var sess stripeapi.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
		}
		out.Session = toSession(&sess)
	}
	return out, nil
}
