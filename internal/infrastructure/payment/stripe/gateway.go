package stripe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	stripeapi "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"

	"github.com/orris-inc/ticketry/internal/shared/config"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// Checkout session states as reported by Stripe.
const (
	SessionOpen     = "open"
	SessionComplete = "complete"
	SessionExpired  = "expired"

	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"

	IntentProcessing            = "processing"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentCanceled              = "canceled"
)

// SessionParams describes the hosted checkout page for one order. Amount is
// in the currency's minor unit.
type SessionParams struct {
	EventID     uint
	OrderCode   string
	Email       string
	Currency    string
	Amount      int64
	Description string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	OrderCode     string `json:"order_code"`
	EventID       string `json:"event_id"`
	PaymentIntent string `json:"payment_intent,omitempty"`
	IntentStatus  string `json:"payment_intent_status,omitempty"`
}

func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// PaymentFailed reports a completed session whose delayed payment Stripe
// gave up on. A completed unpaid session with an intent still processing,
// or not expanded, has not failed.
func (s *CheckoutSession) PaymentFailed() bool {
	if s.Status != SessionComplete || s.IsPaid() {
		return false
	}
	switch s.IntentStatus {
	case IntentRequiresPaymentMethod, IntentCanceled:
		return true
	}
	return false
}

// Gateway is the part of the Stripe API the provider needs.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p SessionParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

// APIGateway calls Stripe through a circuit breaker. Client errors (4xx)
// do not count as failures.
type APIGateway struct {
	api    *client.API
	cb     *gobreaker.CircuitBreaker
	logger logger.Interface
}

// NewAPIGateway uses the given backends, or Stripe's defaults when nil.
func NewAPIGateway(cfg config.StripeConfig, backends *stripeapi.Backends, log logger.Interface) *APIGateway {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := time.Duration(cfg.BreakerTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	log = log.Named("stripe.gateway")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "stripe",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *stripeapi.Error
			return errors.As(err, &se) && se.HTTPStatusCode > 0 && se.HTTPStatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &APIGateway{
		api:    client.New(cfg.SecretKey, backends),
		cb:     cb,
		logger: log,
	}
}

func (g *APIGateway) CreateCheckoutSession(ctx context.Context, p SessionParams) (*CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:              stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		ClientReferenceID: stripeapi.String(p.OrderCode),
		SuccessURL:        stripeapi.String(p.SuccessURL),
		CancelURL:         stripeapi.String(p.CancelURL),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String(p.Currency),
					UnitAmount: stripeapi.Int64(p.Amount),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(p.Description),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
	}
	if p.Email != "" {
		params.CustomerEmail = stripeapi.String(p.Email)
	}
	params.AddMetadata("order_code", p.OrderCode)
	params.AddMetadata("event_id", fmt.Sprint(p.EventID))
	params.Context = ctx

	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.api.CheckoutSessions.New(params)
	})
	if err != nil {
		g.logger.Errorw("failed to create checkout session", "order_code", p.OrderCode, "error", err)
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return toSession(out.(*stripeapi.CheckoutSession)), nil
}

func (g *APIGateway) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.AddExpand("payment_intent")
	params.Context = ctx

	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.api.CheckoutSessions.Get(id, params)
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: get checkout session %s: %w", id, err)
	}

	return toSession(out.(*stripeapi.CheckoutSession)), nil
}

func toSession(s *stripeapi.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		OrderCode:     s.ClientReferenceID,
	}
	if s.Metadata != nil {
		out.EventID = s.Metadata["event_id"]
		if out.OrderCode == "" {
			out.OrderCode = s.Metadata["order_code"]
		}
	}
	if s.PaymentIntent != nil {
		out.PaymentIntent = s.PaymentIntent.ID
		out.IntentStatus = string(s.PaymentIntent.Status)
	}
	return out
}
