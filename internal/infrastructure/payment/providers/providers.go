// Package providers assembles the payment providers shipped with ticketry.
package providers

import (
	"fmt"

	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/banktransfer"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/sepadebit"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/ticketry/internal/shared/services/markdown"
)

// NewRegistry registers bank transfer, SEPA direct debit and Stripe, in
// that order. The order is the order attendees see on the payment step.
func NewRegistry(gateway stripe.Gateway) (*payment.Registry, error) {
	registry := payment.NewRegistry()
	for _, def := range []payment.Definition{
		banktransfer.New(markdown.NewService()),
		sepadebit.New(),
		stripe.New(gateway),
	} {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("failed to register payment provider: %w", err)
		}
	}
	return registry, nil
}
