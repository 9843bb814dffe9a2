// Package sepadebit collects a SEPA direct debit mandate on the payment step
// and settles the order when it is placed.
package sepadebit

import (
	"encoding/json"
	"fmt"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

const (
	Identifier = "sepadebit"

	KeyCreditorName = "creditor_name"
	KeyCreditorID   = "creditor_id"

	FieldAccountHolder = "account_holder"
	FieldIBAN          = "iban"
	FieldBIC           = "bic"
)

const (
	msgConfirmIntro = "The total amount will be debited from the following account:"
	msgPending      = "Your direct debit mandate is being processed."
	msgPaid         = "The amount is debited from your account."
	msgControl      = "SEPA direct debit, mandate %s, IBAN %s"
)

func init() {
	for key, de := range map[string]string{
		"SEPA direct debit":     "SEPA-Lastschrift",
		"Account holder":        "Kontoinhaber",
		"Creditor":              "Zahlungsempfänger",
		msgConfirmIntro:         "Der Gesamtbetrag wird von folgendem Konto eingezogen:",
		msgPending:              "Ihr Lastschriftmandat wird bearbeitet.",
		msgPaid:                 "Der Betrag wird von Ihrem Konto eingezogen.",
		msgControl:              "SEPA-Lastschrift, Mandat %s, IBAN %s",
		ErrIBANFormat.Error():   "Geben Sie eine gültige IBAN ein",
		ErrIBANChecksum.Error(): "Die Prüfsumme der IBAN ist falsch",
	} {
		_ = message.SetString(language.German, key, de)
	}
}

// Mandate is what ends up in the order's payment info.
type Mandate struct {
	Reference     string `json:"reference"`
	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic,omitempty"`
	CreditorID    string `json:"creditor_id"`
	SignedAt      string `json:"signed_at"`
}

// ParseMandate reads the payment info written by CheckoutPerform.
func ParseMandate(info string) (*Mandate, error) {
	var m Mandate
	if err := json.Unmarshal([]byte(info), &m); err != nil {
		return nil, fmt.Errorf("invalid sepa mandate: %w", err)
	}
	return &m, nil
}

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Identifier() string  { return Identifier }
func (p *Provider) VerboseName() string { return "SEPA direct debit" }

func (p *Provider) SettingsFormFields() payment.Fields {
	return payment.Fields{
		{Key: KeyCreditorName, Type: payment.FieldText, Label: "Creditor name", Required: true, Rules: "max=70"},
		{Key: KeyCreditorID, Type: payment.FieldText, Label: "Creditor identifier", Required: true, Rules: "alphanum,min=8,max=35"},
	}
}

func (p *Provider) CheckoutFormFields() payment.Fields {
	return payment.Fields{
		{Key: FieldAccountHolder, Type: payment.FieldText, Label: "Account holder", Required: true, Rules: "max=70"},
		{Key: FieldIBAN, Type: payment.FieldText, Label: "IBAN", Required: true, Check: ValidateIBAN},
		{Key: FieldBIC, Type: payment.FieldText, Label: "BIC", Rules: "bic"},
	}
}

// CheckoutPrepare stores the mandate data with the IBAN normalized.
func (p *Provider) CheckoutPrepare(s *payment.Scope, _ payment.CartSnapshot) (payment.PrepareResult, error) {
	form := payment.NewForm("payment_"+Identifier, p.CheckoutFormFields(), s.Session.Fields(), s.Data)
	if !form.IsValid() {
		s.ReportErrors(form)
		return payment.Invalid(), nil
	}

	data := form.CleanedData()
	s.Session.Set(FieldAccountHolder, data[FieldAccountHolder])
	s.Session.Set(FieldIBAN, NormalizeIBAN(data[FieldIBAN]))
	s.Session.Set(FieldBIC, data[FieldBIC])
	return payment.Continue(), nil
}

func (p *Provider) CheckoutIsValidSession(s *payment.Scope) bool {
	holder, _ := s.Session.Get(FieldAccountHolder)
	iban, _ := s.Session.Get(FieldIBAN)
	return holder != "" && ValidateIBAN(iban) == nil
}

func (p *Provider) CheckoutConfirmRender(s *payment.Scope) (template.HTML, error) {
	holder, _ := s.Session.Get(FieldAccountHolder)
	iban, _ := s.Session.Get(FieldIBAN)
	bic, _ := s.Session.Get(FieldBIC)
	return s.Renderer.RenderTemplate("sepadebit/checkout_confirm.html", map[string]any{
		"Intro":         s.T(msgConfirmIntro),
		"HolderLabel":   s.T("Account holder"),
		"Holder":        holder,
		"IBAN":          MaskIBAN(iban),
		"BIC":           bic,
		"CreditorLabel": s.T("Creditor"),
		"Creditor":      s.Settings.String(KeyCreditorName, ""),
		"CreditorID":    s.Settings.String(KeyCreditorID, ""),
	})
}

// CheckoutPerform records the mandate on the order and marks it paid. The
// debit itself is collected in the organizer's batch run.
func (p *Provider) CheckoutPerform(s *payment.Scope, o *order.Order) (payment.PerformResult, error) {
	if !p.CheckoutIsValidSession(s) {
		return payment.Declined(s.T("No valid direct debit mandate was given.")), nil
	}

	holder, _ := s.Session.Get(FieldAccountHolder)
	iban, _ := s.Session.Get(FieldIBAN)
	bic, _ := s.Session.Get(FieldBIC)
	info, err := json.Marshal(Mandate{
		Reference:     o.Code(),
		AccountHolder: holder,
		IBAN:          iban,
		BIC:           bic,
		CreditorID:    s.Settings.String(KeyCreditorID, ""),
		SignedAt:      biztime.NowUTC().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return payment.PerformResult{}, fmt.Errorf("failed to encode sepa mandate: %w", err)
	}

	if _, err := s.MarkPaid(o, string(info)); err != nil {
		return payment.PerformResult{}, err
	}
	s.Session.Clear()
	return payment.Completed(), nil
}

func (p *Provider) OrderPendingRender(s *payment.Scope, _ *order.Order) (template.HTML, error) {
	return s.Renderer.RenderTemplate("sepadebit/order_status.html", map[string]any{
		"Message": s.T(msgPending),
	})
}

func (p *Provider) OrderPaidRender(s *payment.Scope, o *order.Order) (template.HTML, error) {
	data := map[string]any{"Message": s.T(msgPaid)}
	if m, err := ParseMandate(o.PaymentInfo()); err == nil {
		data["IBAN"] = MaskIBAN(m.IBAN)
	}
	return s.Renderer.RenderTemplate("sepadebit/order_status.html", data)
}

func (p *Provider) OrderControlRender(s *payment.Scope, o *order.Order) (template.HTML, error) {
	m, err := ParseMandate(o.PaymentInfo())
	if err != nil {
		return payment.Escape(s.T("Payment provider: %s", s.T(p.VerboseName()))), nil
	}
	return payment.Escape(s.T(msgControl, m.Reference, MaskIBAN(m.IBAN))), nil
}
