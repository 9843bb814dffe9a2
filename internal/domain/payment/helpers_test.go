package payment

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/domain/order"
)

type mapSettings map[string]string

func (m mapSettings) Get(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (m mapSettings) String(key, def string) string {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

func (m mapSettings) Bool(key string, def bool) bool {
	if v, ok := m.Get(key); ok {
		return parseBool(v)
	}
	return def
}

func (m mapSettings) Decimal(key string, def decimal.Decimal) decimal.Decimal {
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

type fakeRenderer struct {
	templates []string
}

func (r *fakeRenderer) RenderForm(f *Form) (template.HTML, error) {
	var parts []string
	for _, field := range f.Fields() {
		parts = append(parts, f.InputName(field.Key)+"="+f.Value(field.Key))
	}
	return template.HTML(strings.Join(parts, ";")), nil
}

func (r *fakeRenderer) RenderTemplate(name string, data any) (template.HTML, error) {
	r.templates = append(r.templates, name)
	if m, ok := data.(map[string]any); ok {
		if f, ok := m["Form"].(*Form); ok {
			return r.RenderForm(f)
		}
	}
	return template.HTML(name), nil
}

// fakePayments applies mark-paid copy-on-write the way the order service does.
type fakePayments struct {
	markPaidCalls int
	changes       int
	err           error
}

func (p *fakePayments) MarkPaid(_ context.Context, o *order.Order, provider, info string) (*order.Order, error) {
	p.markPaidCalls++
	if p.err != nil {
		return nil, p.err
	}
	c := o.Clone()
	changed, err := c.MarkPaid(provider, info)
	if err != nil {
		return nil, err
	}
	if changed {
		p.changes++
	}
	return c, nil
}

func (p *fakePayments) SavePaymentInfo(_ context.Context, o *order.Order, _ string, info string) (*order.Order, error) {
	c := o.Clone()
	if err := c.SetPaymentInfo(info); err != nil {
		return nil, err
	}
	return c, nil
}

// minimalDef implements only the required members.
type minimalDef struct {
	id   string
	name string
}

func (d minimalDef) Identifier() string  { return d.id }
func (d minimalDef) VerboseName() string { return d.name }

func (d minimalDef) CheckoutConfirmRender(*Scope) (template.HTML, error) {
	return "confirm", nil
}

func (d minimalDef) CheckoutIsValidSession(*Scope) bool { return true }

func (d minimalDef) OrderPendingRender(*Scope, *order.Order) (template.HTML, error) {
	return "pending", nil
}

// debitDef asks for an account holder and marks orders paid immediately.
type debitDef struct {
	minimalDef
	performCalls int
}

func newDebitDef(id string) *debitDef {
	return &debitDef{minimalDef: minimalDef{id: id, name: "Debit " + id}}
}

func (d *debitDef) SettingsFormFields() Fields {
	return Fields{
		{Key: "creditor", Type: FieldText, Label: "Creditor"},
		{Key: KeyEnabled, Type: FieldText, Label: "Shadowed"},
	}
}

func (d *debitDef) CheckoutFormFields() Fields {
	return Fields{
		{Key: "holder", Type: FieldText, Label: "Account holder", Required: true, Rules: "max=20"},
		{Key: "bic", Type: FieldText, Label: "BIC"},
	}
}

func (d *debitDef) CheckoutIsValidSession(s *Scope) bool {
	_, ok := s.Session.Get("holder")
	return ok
}

func (d *debitDef) CheckoutPerform(s *Scope, o *order.Order) (PerformResult, error) {
	d.performCalls++
	holder, _ := s.Session.Get("holder")
	if holder == "decline" {
		return Declined("insufficient funds"), nil
	}
	if _, err := s.MarkPaid(o, `{"holder":"`+holder+`"}`); err != nil {
		return PerformResult{}, err
	}
	return Completed(), nil
}

var errGatewayDown = errors.New("gateway down")
