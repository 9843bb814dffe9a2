// Package banktransfer lets attendees pay by wiring the money to the
// organizer's account, quoting the order code as reference.
package banktransfer

import (
	"html/template"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/services/markdown"
)

const (
	Identifier = "banktransfer"

	KeyBankDetails = "bank_details"
)

const (
	msgConfirmIntro = "After completing your purchase, we will ask you to transfer the money to the following bank account, using a personal reference code:"
	msgPendingIntro = "Please transfer the full amount to the following bank account:"
	msgReference    = "Reference"
)

func init() {
	for key, de := range map[string]string{
		"Bank transfer":        "Überweisung",
		"Bank account details": "Bankverbindung",
		msgConfirmIntro:        "Nach Abschluss Ihrer Bestellung bitten wir Sie, den Betrag unter Angabe eines persönlichen Verwendungszwecks auf folgendes Konto zu überweisen:",
		msgPendingIntro:        "Bitte überweisen Sie den vollständigen Betrag auf folgendes Konto:",
		msgReference:           "Verwendungszweck",
	} {
		_ = message.SetString(language.German, key, de)
	}
}

type Provider struct {
	md markdown.Service
}

func New(md markdown.Service) *Provider {
	return &Provider{md: md}
}

func (p *Provider) Identifier() string  { return Identifier }
func (p *Provider) VerboseName() string { return "Bank transfer" }

func (p *Provider) SettingsFormFields() payment.Fields {
	return payment.Fields{
		{
			Key:      KeyBankDetails,
			Type:     payment.FieldTextarea,
			Label:    "Bank account details",
			HelpText: "Include everything needed to send a transfer, such as IBAN, BIC and account holder. Markdown is allowed.",
			Required: true,
		},
	}
}

func (p *Provider) CheckoutConfirmRender(s *payment.Scope) (template.HTML, error) {
	details, err := p.bankDetails(s)
	if err != nil {
		return "", err
	}
	return s.Renderer.RenderTemplate("banktransfer/checkout_confirm.html", map[string]any{
		"Intro":       s.T(msgConfirmIntro),
		"BankDetails": details,
	})
}

// Nothing is collected on the payment step.
func (p *Provider) CheckoutIsValidSession(*payment.Scope) bool { return true }

func (p *Provider) OrderPendingRender(s *payment.Scope, o *order.Order) (template.HTML, error) {
	details, err := p.bankDetails(s)
	if err != nil {
		return "", err
	}
	return s.Renderer.RenderTemplate("banktransfer/order_pending.html", map[string]any{
		"Intro":          s.T(msgPendingIntro),
		"BankDetails":    details,
		"ReferenceLabel": s.T(msgReference),
		"Reference":      o.Code(),
	})
}

func (p *Provider) OrderPendingMailRender(s *payment.Scope, o *order.Order) (string, error) {
	var b strings.Builder
	b.WriteString(s.T(msgPendingIntro))
	b.WriteString("\n\n")
	b.WriteString(p.md.ToPlainText(s.Settings.String(KeyBankDetails, "")))
	b.WriteString("\n\n")
	b.WriteString(s.T(msgReference))
	b.WriteString(": ")
	b.WriteString(o.Code())
	return b.String(), nil
}

func (p *Provider) bankDetails(s *payment.Scope) (template.HTML, error) {
	return p.md.ToSafeHTML(s.Settings.String(KeyBankDetails, ""))
}
