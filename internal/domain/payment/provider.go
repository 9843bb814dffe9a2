// Package payment defines the extension point payment methods plug into.
//
// A payment method implements Definition and any of the optional capability
// interfaces below. The host never calls a Definition directly; it binds it
// to the settings of one event with Bind and talks to the resulting Bound,
// which supplies the default behavior for every capability the definition
// leaves out.
package payment

import (
	"html/template"

	"github.com/orris-inc/ticketry/internal/domain/order"
)

// Definition holds the members every payment method must provide.
type Definition interface {
	// Identifier is short, lowercase and stable. It prefixes settings and
	// session keys and is stored on paid orders.
	Identifier() string
	VerboseName() string
	CheckoutConfirmRender(s *Scope) (template.HTML, error)
	CheckoutIsValidSession(s *Scope) bool
	OrderPendingRender(s *Scope, o *order.Order) (template.HTML, error)
}

// SettingsFormExtender adds settings fields after the base fields.
type SettingsFormExtender interface {
	SettingsFormFields() Fields
}

// CheckoutFormProvider asks the visitor for data on the payment step.
type CheckoutFormProvider interface {
	CheckoutFormFields() Fields
}

// CheckoutFormRenderer replaces the default checkout form fragment.
type CheckoutFormRenderer interface {
	CheckoutFormRender(s *Scope, form *Form) (template.HTML, error)
}

// CheckoutPreparer replaces the default payment step handling, which stores
// the cleaned checkout form in the session.
type CheckoutPreparer interface {
	CheckoutPrepare(s *Scope, cart CartSnapshot) (PrepareResult, error)
}

// CheckoutPerformer moves money after the order was placed.
type CheckoutPerformer interface {
	CheckoutPerform(s *Scope, o *order.Order) (PerformResult, error)
}

// PendingMailRenderer appends plain text to the order confirmation mail.
type PendingMailRenderer interface {
	OrderPendingMailRender(s *Scope, o *order.Order) (string, error)
}

// PaidRenderer adds a fragment to the page of a paid order.
type PaidRenderer interface {
	OrderPaidRender(s *Scope, o *order.Order) (template.HTML, error)
}

// ControlRenderer replaces the payment box of the backend order page.
type ControlRenderer interface {
	OrderControlRender(s *Scope, o *order.Order) (template.HTML, error)
}
