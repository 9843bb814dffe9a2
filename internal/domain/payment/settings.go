package payment

import (
	"html/template"

	"github.com/shopspring/decimal"
)

// Settings is the sandboxed settings view of one provider for one event.
// Missing or unparsable values yield the given default.
type Settings interface {
	Get(key string) (string, bool)
	String(key, def string) string
	Bool(key string, def bool) bool
	Decimal(key string, def decimal.Decimal) decimal.Decimal
}

// Renderer turns forms and named templates into HTML fragments.
type Renderer interface {
	RenderForm(f *Form) (template.HTML, error)
	RenderTemplate(name string, data any) (template.HTML, error)
}

// CheckoutFormTemplate is rendered for providers without their own
// checkout form fragment.
const CheckoutFormTemplate = "payment/checkout_form.html"

// CalculateFee returns price*percent/100 + abs, unrounded.
func CalculateFee(price, abs, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(percent).Div(decimal.NewFromInt(100)).Add(abs)
}
