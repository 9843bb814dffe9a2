package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/setting"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// ProviderSet binds the registered payment providers to the settings of one
// event. Bound providers are built per call and must not be cached across
// requests.
type ProviderSet struct {
	registry *payment.Registry
	settings setting.Repository
	renderer payment.Renderer
	payments payment.OrderPayments
	logger   logger.Interface
}

func NewProviderSet(
	registry *payment.Registry,
	settings setting.Repository,
	renderer payment.Renderer,
	payments payment.OrderPayments,
	logger logger.Interface,
) *ProviderSet {
	return &ProviderSet{
		registry: registry,
		settings: settings,
		renderer: renderer,
		payments: payments,
		logger:   logger,
	}
}

// All returns every registered provider in registration order.
func (s *ProviderSet) All(ctx context.Context, eventID uint) ([]*payment.Bound, error) {
	stored, err := s.settings.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event settings: %w", err)
	}

	defs := s.registry.Definitions()
	out := make([]*payment.Bound, 0, len(defs))
	for _, def := range defs {
		sandbox := setting.NewSandbox(eventID, setting.PaymentNamespace(def.Identifier()), stored)
		out = append(out, payment.Bind(def, sandbox, s.renderer, s.payments))
	}
	return out, nil
}

// Enabled returns the providers the organizer switched on.
func (s *ProviderSet) Enabled(ctx context.Context, eventID uint) ([]*payment.Bound, error) {
	all, err := s.All(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, b := range all {
		if b.IsEnabled() {
			out = append(out, b)
		}
	}
	return out, nil
}

// Bind returns payment.ErrProviderNotFound for unknown identifiers.
func (s *ProviderSet) Bind(ctx context.Context, eventID uint, identifier string) (*payment.Bound, error) {
	def, ok := s.registry.Get(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", payment.ErrProviderNotFound, identifier)
	}

	ns := setting.PaymentNamespace(identifier)
	stored, err := s.settings.GetByNamespace(ctx, eventID, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s settings: %w", identifier, err)
	}
	return payment.Bind(def, setting.NewSandbox(eventID, ns, stored), s.renderer, s.payments), nil
}

// BindEnabled is Bind limited to enabled providers.
func (s *ProviderSet) BindEnabled(ctx context.Context, eventID uint, identifier string) (*payment.Bound, error) {
	b, err := s.Bind(ctx, eventID, identifier)
	if err != nil {
		return nil, err
	}
	if !b.IsEnabled() {
		return nil, fmt.Errorf("%w: %s", payment.ErrProviderDisabled, identifier)
	}
	return b, nil
}
