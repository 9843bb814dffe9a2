// Package stripe sends attendees to a Stripe hosted checkout page after the
// order is placed. The order is marked paid when Stripe reports the checkout
// session as paid, either on return from the checkout page or by webhook.
package stripe

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/money"
)

const (
	Identifier = "stripe"

	KeyPublicName = "public_name"
)

const (
	msgConfirmIntro = "After confirming the order you will be redirected to Stripe to pay by card."
	msgPending      = "We have not received your card payment yet."
	msgRetry        = "Pay now"
	msgDeclined     = "The card payment was not completed."
	msgProcessing   = "Your payment is being processed. We will confirm the order once it has cleared."
)

func init() {
	for key, de := range map[string]string{
		"Credit card":   "Kreditkarte",
		msgConfirmIntro: "Nach der Bestätigung werden Sie zur Kartenzahlung an Stripe weitergeleitet.",
		msgPending:      "Wir haben Ihre Kartenzahlung noch nicht erhalten.",
		msgRetry:        "Jetzt bezahlen",
		msgDeclined:     "Die Kartenzahlung wurde nicht abgeschlossen.",
		msgProcessing:   "Ihre Zahlung wird bearbeitet. Wir bestätigen die Bestellung, sobald sie eingegangen ist.",
	} {
		_ = message.SetString(language.German, key, de)
	}
}

// paymentInfo is stored on the order while it waits for Stripe.
type paymentInfo struct {
	SessionID     string `json:"session_id"`
	PaymentIntent string `json:"payment_intent,omitempty"`
}

func parsePaymentInfo(raw string) paymentInfo {
	var info paymentInfo
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &info)
	}
	return info
}

type Provider struct {
	gateway Gateway
}

func New(gateway Gateway) *Provider {
	return &Provider{gateway: gateway}
}

func (p *Provider) Identifier() string  { return Identifier }
func (p *Provider) VerboseName() string { return "Credit card" }

func (p *Provider) SettingsFormFields() payment.Fields {
	return payment.Fields{
		{
			Key:      KeyPublicName,
			Type:     payment.FieldText,
			Label:    "Payment method name",
			HelpText: "Shown to attendees instead of the default name.",
			Rules:    "max=100",
		},
	}
}

func (p *Provider) CheckoutConfirmRender(s *payment.Scope) (template.HTML, error) {
	return s.Renderer.RenderTemplate("stripe/checkout_confirm.html", map[string]any{
		"Intro": s.T(msgConfirmIntro),
	})
}

// CheckoutFormRender shows the organizer's name for the method. There are no
// fields; card data is entered on Stripe's page.
func (p *Provider) CheckoutFormRender(s *payment.Scope, form *payment.Form) (template.HTML, error) {
	return s.Renderer.RenderTemplate(payment.CheckoutFormTemplate, map[string]any{
		"Provider": s.Settings.String(KeyPublicName, s.T(p.VerboseName())),
		"Form":     form,
	})
}

// Card data is entered on Stripe's page, so any session is fine.
func (p *Provider) CheckoutIsValidSession(*payment.Scope) bool { return true }

// CheckoutPerform reuses the checkout session already attached to the order
// and only opens a new one when there is none or it expired.
func (p *Provider) CheckoutPerform(s *payment.Scope, o *order.Order) (payment.PerformResult, error) {
	info := parsePaymentInfo(o.PaymentInfo())
	if info.SessionID != "" {
		sess, err := p.gateway.GetCheckoutSession(s.Context(), info.SessionID)
		if err != nil {
			return payment.PerformResult{}, err
		}
		if sess.Status != SessionExpired {
			return p.settle(s, o, sess)
		}
	}

	sess, err := p.gateway.CreateCheckoutSession(s.Context(), SessionParams{
		EventID:     s.Event.ID,
		OrderCode:   o.Code(),
		Email:       o.Email(),
		Currency:    strings.ToLower(s.Event.Currency),
		Amount:      money.MinorUnits(o.Total(), s.Event.Currency),
		Description: fmt.Sprintf("%s %s", s.Event.Name, o.Code()),
		SuccessURL:  s.OrderURL(o) + "stripe/return/?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.OrderURL(o),
	})
	if err != nil {
		return payment.PerformResult{}, err
	}

	raw, err := json.Marshal(paymentInfo{SessionID: sess.ID})
	if err != nil {
		return payment.PerformResult{}, err
	}
	if _, err := s.SavePaymentInfo(o, string(raw)); err != nil {
		return payment.PerformResult{}, err
	}
	return payment.Deferred(sess.URL), nil
}

// settle acts on an existing session. A completed but unpaid session is a
// delayed payment method still clearing; it keeps its id so the later
// webhook or return finds it again.
func (p *Provider) settle(s *payment.Scope, o *order.Order, sess *CheckoutSession) (payment.PerformResult, error) {
	switch {
	case sess.IsPaid():
		raw, err := json.Marshal(paymentInfo{SessionID: sess.ID, PaymentIntent: sess.PaymentIntent})
		if err != nil {
			return payment.PerformResult{}, err
		}
		if _, err := s.MarkPaid(o, string(raw)); err != nil {
			return payment.PerformResult{}, err
		}
		return payment.Completed(), nil
	case sess.PaymentFailed() || webhookEventFrom(s.Context()).reportsFailure(sess):
		if _, err := s.SavePaymentInfo(o, ""); err != nil {
			return payment.PerformResult{}, err
		}
		return payment.Declined(s.T(msgDeclined)), nil
	case sess.Status == SessionComplete:
		if s.Messages != nil {
			s.Messages.Info(s.T(msgProcessing))
		}
		return payment.Deferred(""), nil
	default:
		return payment.Deferred(sess.URL), nil
	}
}

func (p *Provider) OrderPendingRender(s *payment.Scope, o *order.Order) (template.HTML, error) {
	data := map[string]any{
		"Message":    s.T(msgPending),
		"RetryLabel": s.T(msgRetry),
	}
	if parsePaymentInfo(o.PaymentInfo()).SessionID != "" {
		data["RetryURL"] = s.OrderURL(o) + "pay/"
	}
	return s.Renderer.RenderTemplate("stripe/order_pending.html", data)
}

func (p *Provider) OrderControlRender(s *payment.Scope, o *order.Order) (template.HTML, error) {
	text := s.T("Payment provider: %s", s.T(p.VerboseName()))
	if info := parsePaymentInfo(o.PaymentInfo()); info.SessionID != "" {
		text += " (" + info.SessionID + ")"
	}
	return payment.Escape(text), nil
}
