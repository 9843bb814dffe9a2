package payment

import (
	"context"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/domain/order"
)

// Bound is a provider definition bound to the settings of one event.
// It is built per request and discarded afterwards.
type Bound struct {
	def      Definition
	settings Settings
	renderer Renderer
	payments OrderPayments
}

func Bind(def Definition, settings Settings, renderer Renderer, payments OrderPayments) *Bound {
	return &Bound{def: def, settings: settings, renderer: renderer, payments: payments}
}

func (b *Bound) Identifier() string     { return b.def.Identifier() }
func (b *Bound) VerboseName() string    { return b.def.VerboseName() }
func (b *Bound) Definition() Definition { return b.def }
func (b *Bound) Settings() Settings     { return b.settings }

func (b *Bound) IsEnabled() bool {
	return b.settings.Bool(KeyEnabled, false)
}

func (b *Bound) FeeAbs() decimal.Decimal {
	return b.settings.Decimal(KeyFeeAbs, decimal.Zero)
}

func (b *Bound) FeePercent() decimal.Decimal {
	return b.settings.Decimal(KeyFeePercent, decimal.Zero)
}

// CalculateFee is the fee charged on top of price.
func (b *Bound) CalculateFee(price decimal.Decimal) decimal.Decimal {
	return CalculateFee(price, b.FeeAbs(), b.FeePercent())
}

// SettingsFormFields are the base fields followed by the provider's own.
func (b *Bound) SettingsFormFields() Fields {
	base := BaseSettingsFields()
	if ext, ok := b.def.(SettingsFormExtender); ok {
		return base.Extend(ext.SettingsFormFields())
	}
	return base
}

func (b *Bound) CheckoutFormFields() Fields {
	if p, ok := b.def.(CheckoutFormProvider); ok {
		return p.CheckoutFormFields()
	}
	return Fields{}
}

// CheckoutForm is bound to r.Data when present and pre-filled from the
// values stored by an earlier payment step.
func (b *Bound) CheckoutForm(r *Request) *Form {
	scoped := b.session(r).Scope(b.Identifier())
	return NewForm("payment_"+b.Identifier(), b.CheckoutFormFields(), scoped.Fields(), r.Data)
}

func (b *Bound) CheckoutFormRender(r *Request) (template.HTML, error) {
	form := b.CheckoutForm(r)
	if p, ok := b.def.(CheckoutFormRenderer); ok {
		return p.CheckoutFormRender(b.scope(r), form)
	}
	return b.renderer.RenderTemplate(CheckoutFormTemplate, map[string]any{
		"Provider": b.VerboseName(),
		"Form":     form,
	})
}

func (b *Bound) CheckoutConfirmRender(r *Request) (template.HTML, error) {
	return b.def.CheckoutConfirmRender(b.scope(r))
}

// CheckoutPrepare runs the payment step. It never touches an order.
func (b *Bound) CheckoutPrepare(r *Request, cart CartSnapshot) (PrepareResult, error) {
	s := b.scope(r)
	if p, ok := b.def.(CheckoutPreparer); ok {
		return p.CheckoutPrepare(s, cart)
	}

	form := b.CheckoutForm(r)
	if !form.IsValid() {
		s.ReportErrors(form)
		return Invalid(), nil
	}
	for k, v := range form.CleanedData() {
		s.Session.Set(k, v)
	}
	return Continue(), nil
}

func (b *Bound) CheckoutIsValidSession(r *Request) bool {
	return b.def.CheckoutIsValidSession(b.scope(r))
}

// CheckoutPerform completes payment of o. An order this provider already
// marked paid reports Completed without calling the definition again;
// orders that left the pending state are declined.
func (b *Bound) CheckoutPerform(r *Request, o *order.Order) (PerformResult, error) {
	if o.PaymentProvider() != b.Identifier() {
		return PerformResult{}, fmt.Errorf("%w: %s", ErrProviderMismatch, o.PaymentProvider())
	}
	if o.Status().IsPaid() {
		return Completed(), nil
	}
	if !o.Status().IsPending() {
		return Declined("order is " + o.Status().Name()), nil
	}
	if p, ok := b.def.(CheckoutPerformer); ok {
		return p.CheckoutPerform(b.scope(r), o)
	}
	return Deferred(""), nil
}

// OrderPendingMailRender is plain text for the confirmation mail.
func (b *Bound) OrderPendingMailRender(ctx context.Context, o *order.Order) (string, error) {
	if p, ok := b.def.(PendingMailRenderer); ok {
		return p.OrderPendingMailRender(b.backgroundScope(ctx, o), o)
	}
	return "", nil
}

func (b *Bound) OrderPendingRender(r *Request, o *order.Order) (template.HTML, error) {
	return b.def.OrderPendingRender(b.scope(r), o)
}

func (b *Bound) OrderPaidRender(r *Request, o *order.Order) (template.HTML, error) {
	if p, ok := b.def.(PaidRenderer); ok {
		return p.OrderPaidRender(b.scope(r), o)
	}
	return "", nil
}

func (b *Bound) OrderControlRender(ctx context.Context, o *order.Order, locale string) (template.HTML, error) {
	s := b.backgroundScope(ctx, o)
	s.Locale = locale
	s.printer = Printer(locale)
	if p, ok := b.def.(ControlRenderer); ok {
		return p.OrderControlRender(s, o)
	}
	return Escape(s.T("Payment provider: %s", b.VerboseName())), nil
}

func (b *Bound) session(r *Request) *Session {
	if r.Session == nil {
		r.Session = NewSession("", nil)
	}
	return r.Session
}

func (b *Bound) scope(r *Request) *Scope {
	if r.Messages == nil {
		r.Messages = &Messages{}
	}
	return &Scope{
		ctx:        r.Ctx,
		identifier: b.Identifier(),
		payments:   b.payments,
		printer:    Printer(r.Locale),
		Event:      r.Event,
		Session:    b.session(r).Scope(b.Identifier()),
		Data:       r.Data,
		Messages:   r.Messages,
		Locale:     r.Locale,
		BaseURL:    r.BaseURL,
		Settings:   b.settings,
		Renderer:   b.renderer,
	}
}

// backgroundScope serves calls made outside a visitor's request, such as
// mail rendering. Its session is empty.
func (b *Bound) backgroundScope(ctx context.Context, o *order.Order) *Scope {
	return b.scope(&Request{Ctx: ctx, Locale: o.Locale()})
}
