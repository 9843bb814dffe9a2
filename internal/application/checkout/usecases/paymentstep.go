package usecases

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/orris-inc/ticketry/internal/application/checkout/dto"
	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/money"
)

var tracer = otel.Tracer("github.com/orris-inc/ticketry/internal/application/checkout")

// ProviderLister is the part of the provider set the checkout needs.
type ProviderLister interface {
	Enabled(ctx context.Context, eventID uint) ([]*payment.Bound, error)
	BindEnabled(ctx context.Context, eventID uint, identifier string) (*payment.Bound, error)
}

type PrepareMetrics interface {
	ObservePrepare(provider, outcome string)
}

// selectedProvider binds the provider chosen on the payment step.
func selectedProvider(ctx context.Context, providers ProviderLister, eventID uint, s *payment.Session) (*payment.Bound, error) {
	id, ok := s.Get(providerKey)
	if !ok || id == "" {
		return nil, apperrors.NewValidationError("select a payment method")
	}
	b, err := providers.BindEnabled(ctx, eventID, id)
	if err != nil {
		if errors.Is(err, payment.ErrProviderNotFound) || errors.Is(err, payment.ErrProviderDisabled) {
			s.Delete(providerKey)
			return nil, apperrors.NewValidationError("select a payment method")
		}
		return nil, err
	}
	return b, nil
}

func cartWithFee(positions []payment.CartPosition, b *payment.Bound, currency string) payment.CartSnapshot {
	return payment.NewCartSnapshot(positions, money.Round(b.CalculateFee(payment.SubtotalOf(positions)), currency))
}

// GetPaymentStepUseCase lists the enabled providers with the fee each one
// adds and its rendered checkout form.
type GetPaymentStepUseCase struct {
	providers ProviderLister
	logger    logger.Interface
}

func NewGetPaymentStepUseCase(providers ProviderLister, logger logger.Interface) *GetPaymentStepUseCase {
	return &GetPaymentStepUseCase{providers: providers, logger: logger}
}

func (uc *GetPaymentStepUseCase) Execute(ctx context.Context, scope *common.EventScope, req *payment.Request) (*dto.PaymentStepDTO, error) {
	cart := loadCart(req.Session)
	if len(cart) == 0 {
		return nil, errEmptyCart
	}

	enabled, err := uc.providers.Enabled(ctx, scope.Event.ID())
	if err != nil {
		uc.logger.Errorw("failed to load payment providers", "event_id", scope.Event.ID(), "error", err)
		return nil, apperrors.NewInternalError("failed to load payment methods")
	}

	req.Ctx = ctx
	out := &dto.PaymentStepDTO{
		Cart:      dto.ToCartDTO(payment.NewCartSnapshot(cart, decimal.Zero)),
		Providers: make([]dto.ProviderChoiceDTO, 0, len(enabled)),
	}
	out.Selected, _ = req.Session.Get(providerKey)

	for _, b := range enabled {
		html, err := b.CheckoutFormRender(req)
		if err != nil {
			uc.logger.Errorw("failed to render checkout form", "provider", b.Identifier(), "error", err)
			return nil, apperrors.NewInternalError("failed to load payment methods")
		}
		snap := cartWithFee(cart, b, req.Event.Currency)
		out.Providers = append(out.Providers, dto.ProviderChoiceDTO{
			Identifier: b.Identifier(),
			Name:       payment.Printer(req.Locale).Sprintf(b.VerboseName()),
			Fee:        snap.Fee.StringFixed(money.Scale(req.Event.Currency)),
			Total:      snap.Total.StringFixed(2),
			FormHTML:   html,
		})
	}
	return out, nil
}

// SelectPaymentUseCase runs checkout_prepare of the chosen provider. It
// never creates or touches an order.
type SelectPaymentUseCase struct {
	providers ProviderLister
	metrics   PrepareMetrics
	logger    logger.Interface
}

func NewSelectPaymentUseCase(providers ProviderLister, metrics PrepareMetrics, logger logger.Interface) *SelectPaymentUseCase {
	return &SelectPaymentUseCase{providers: providers, metrics: metrics, logger: logger}
}

func (uc *SelectPaymentUseCase) Execute(ctx context.Context, scope *common.EventScope, identifier string, req *payment.Request) (*dto.PrepareResultDTO, error) {
	cart := loadCart(req.Session)
	if len(cart) == 0 {
		return nil, errEmptyCart
	}

	b, err := uc.providers.BindEnabled(ctx, scope.Event.ID(), identifier)
	if err != nil {
		if errors.Is(err, payment.ErrProviderNotFound) || errors.Is(err, payment.ErrProviderDisabled) {
			return nil, apperrors.NewValidationError("select a payment method")
		}
		uc.logger.Errorw("failed to bind payment provider", "provider", identifier, "error", err)
		return nil, apperrors.NewInternalError("failed to select payment method")
	}

	ctx, span := tracer.Start(ctx, "payment.prepare")
	defer span.End()
	span.SetAttributes(attribute.String("payment.provider", b.Identifier()))

	req.Ctx = ctx
	if req.Messages == nil {
		req.Messages = &payment.Messages{}
	}
	res, err := b.CheckoutPrepare(req, cartWithFee(cart, b, req.Event.Currency))
	if err != nil {
		uc.observe(b.Identifier(), "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logger.Errorw("checkout prepare failed", "provider", b.Identifier(), "error", err)
		return nil, apperrors.NewUnavailableError("payment method is temporarily unavailable")
	}

	outcome := dto.OutcomeName(res.Outcome())
	uc.observe(b.Identifier(), outcome)
	span.SetAttributes(attribute.String("payment.outcome", outcome))

	out := &dto.PrepareResultDTO{Outcome: outcome, Messages: req.Messages.All()}
	if !res.IsValid() {
		return out, nil
	}
	req.Session.Set(providerKey, b.Identifier())
	if url, ok := res.Redirect(); ok {
		out.RedirectURL = url
	}
	return out, nil
}

func (uc *SelectPaymentUseCase) observe(provider, outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObservePrepare(provider, outcome)
	}
}

// GetConfirmUseCase shows the confirmation step. The chosen provider has to
// accept the session data stored by the payment step.
type GetConfirmUseCase struct {
	providers ProviderLister
	logger    logger.Interface
}

func NewGetConfirmUseCase(providers ProviderLister, logger logger.Interface) *GetConfirmUseCase {
	return &GetConfirmUseCase{providers: providers, logger: logger}
}

func (uc *GetConfirmUseCase) Execute(ctx context.Context, scope *common.EventScope, req *payment.Request) (*dto.ConfirmDTO, error) {
	cart := loadCart(req.Session)
	if len(cart) == 0 {
		return nil, errEmptyCart
	}

	req.Ctx = ctx
	b, err := confirmableProvider(ctx, uc.providers, scope, req)
	if err != nil {
		return nil, err
	}

	html, err := b.CheckoutConfirmRender(req)
	if err != nil {
		uc.logger.Errorw("failed to render confirmation", "provider", b.Identifier(), "error", err)
		return nil, apperrors.NewInternalError("failed to render confirmation")
	}
	return &dto.ConfirmDTO{
		Cart:         dto.ToCartDTO(cartWithFee(cart, b, req.Event.Currency)),
		Provider:     b.Identifier(),
		ProviderName: payment.Printer(req.Locale).Sprintf(b.VerboseName()),
		ConfirmHTML:  html,
	}, nil
}

func confirmableProvider(ctx context.Context, providers ProviderLister, scope *common.EventScope, req *payment.Request) (*payment.Bound, error) {
	b, err := selectedProvider(ctx, providers, scope.Event.ID(), req.Session)
	if err != nil {
		return nil, err
	}
	if !b.CheckoutIsValidSession(req) {
		return nil, apperrors.NewValidationError("payment information is incomplete, select a payment method again")
	}
	return b, nil
}
