package payment

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/text/message"

	"github.com/orris-inc/ticketry/internal/domain/order"
)

// EventInfo is the part of the event a provider may rely on.
type EventInfo struct {
	ID            uint
	OrganizerSlug string
	Slug          string
	Name          string
	Currency      string
}

// Request is what the host hands to a bound provider for one HTTP request.
type Request struct {
	Ctx      context.Context
	Event    EventInfo
	Session  *Session
	Data     url.Values
	Messages *Messages
	Locale   string
	BaseURL  string
}

// OrderPayments is the host side of mark-paid. Implementations reload the
// order, mutate a clone and persist it with a version check, returning the
// stored copy.
type OrderPayments interface {
	MarkPaid(ctx context.Context, o *order.Order, provider, info string) (*order.Order, error)
	SavePaymentInfo(ctx context.Context, o *order.Order, provider, info string) (*order.Order, error)
}

// Scope is the request view a provider definition works with. Session and
// Settings only expose the provider's own namespace.
type Scope struct {
	ctx        context.Context
	identifier string
	payments   OrderPayments
	printer    *message.Printer

	Event    EventInfo
	Session  *ScopedSession
	Data     url.Values
	Messages *Messages
	Locale   string
	BaseURL  string
	Settings Settings
	Renderer Renderer
}

func (s *Scope) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *Scope) Identifier() string { return s.identifier }

// T translates a message into the request locale.
func (s *Scope) T(key string, args ...any) string {
	return s.printer.Sprintf(key, args...)
}

// ReportErrors queues the errors of form as messages in the request locale.
func (s *Scope) ReportErrors(form *Form) {
	for _, msg := range form.TranslatedErrorList(s.T) {
		s.Messages.Error(msg)
	}
}

// MarkPaid is the only way a provider completes an order.
func (s *Scope) MarkPaid(o *order.Order, info string) (*order.Order, error) {
	if s.payments == nil {
		return nil, fmt.Errorf("no order payments configured for %s", s.identifier)
	}
	return s.payments.MarkPaid(s.Context(), o, s.identifier, info)
}

// SavePaymentInfo stores provider data on a pending order.
func (s *Scope) SavePaymentInfo(o *order.Order, info string) (*order.Order, error) {
	if s.payments == nil {
		return nil, fmt.Errorf("no order payments configured for %s", s.identifier)
	}
	return s.payments.SavePaymentInfo(s.Context(), o, s.identifier, info)
}

// OrderURL is the absolute link to the attendee's order page.
func (s *Scope) OrderURL(o *order.Order) string {
	return OrderURL(s.BaseURL, s.Event, o)
}

// OrderURL links the order page of o below baseURL.
func OrderURL(baseURL string, ev EventInfo, o *order.Order) string {
	return OrderPath(baseURL, ev, o.Code(), o.Secret())
}

func OrderPath(baseURL string, ev EventInfo, code, secret string) string {
	return fmt.Sprintf("%s/%s/%s/order/%s/%s/",
		strings.TrimRight(baseURL, "/"), ev.OrganizerSlug, ev.Slug, code, secret)
}

// Escape turns plain text into HTML.
func Escape(text string) template.HTML {
	return template.HTML(template.HTMLEscapeString(text))
}
