// Package paymenttest holds fakes for exercising payment providers without a
// database.
package paymenttest

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/setting"
)

// Settings is a map-backed payment.Settings. Empty values count as unset.
type Settings map[string]string

func (m Settings) Get(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (m Settings) String(key, def string) string {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

func (m Settings) Bool(key string, def bool) bool {
	v, ok := m.Get(key)
	if !ok {
		return def
	}
	b, err := setting.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (m Settings) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	v, ok := m.Get(key)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

// Payments applies mark-paid copy-on-write and counts the calls.
type Payments struct {
	mu            sync.Mutex
	MarkPaidCalls int
	SaveCalls     int
	Err           error
}

func (p *Payments) MarkPaid(_ context.Context, o *order.Order, provider, info string) (*order.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.MarkPaidCalls++
	if p.Err != nil {
		return nil, p.Err
	}
	c := o.Clone()
	if _, err := c.MarkPaid(provider, info); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Payments) SavePaymentInfo(_ context.Context, o *order.Order, _ string, info string) (*order.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SaveCalls++
	if p.Err != nil {
		return nil, p.Err
	}
	c := o.Clone()
	if err := c.SetPaymentInfo(info); err != nil {
		return nil, err
	}
	return c, nil
}

// NewOrder places a pending single-position order for provider.
func NewOrder(t testing.TB, provider, price string) *order.Order {
	t.Helper()
	p, err := order.NewPosition(1, nil, decimal.RequireFromString(price), "", nil)
	require.NoError(t, err)
	o, err := order.NewOrder(1, "dummy@example.org", "en", provider, "EUR", decimal.Zero, []*order.Position{p}, time.Hour)
	require.NoError(t, err)
	return o
}

// Event is the event every fake request belongs to.
var Event = payment.EventInfo{
	ID:            1,
	OrganizerSlug: "demo",
	Slug:          "conf",
	Name:          "Demo Conference",
	Currency:      "EUR",
}

// NewRequest builds a request in a fresh session. A nil data means GET.
func NewRequest(data url.Values) *payment.Request {
	return &payment.Request{
		Ctx:      context.Background(),
		Event:    Event,
		Session:  payment.NewSession("test-session", nil),
		Data:     data,
		Messages: &payment.Messages{},
		Locale:   "en",
		BaseURL:  "https://tickets.example.org",
	}
}
