package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

var tracer = otel.Tracer("github.com/orris-inc/ticketry/internal/application/order")

// ProviderBinder binds a registered provider to the settings of an event.
type ProviderBinder interface {
	Bind(ctx context.Context, eventID uint, identifier string) (*payment.Bound, error)
}

// PerformGuard lets checkout_perform run at most once per order. Acquire
// reports done=true for an order already performed and returns
// payment.ErrPerformInProgress while another caller holds it. Release only
// drops the marker of the attempt that token names.
type PerformGuard interface {
	Acquire(ctx context.Context, key string) (token string, done bool, err error)
	Complete(ctx context.Context, key string) error
	Release(ctx context.Context, key, token string) error
}

// PaymentMetrics records checkout outcomes per provider.
type PaymentMetrics interface {
	ObservePrepare(provider, outcome string)
	ObservePerform(provider, status string, elapsed time.Duration)
}

type PerformPaymentResult struct {
	Result payment.PerformResult
	Order  *order.Order
}

// PerformPaymentUseCase runs checkout_perform of the order's provider under
// the perform guard. It serves order placement, payment retries, provider
// returns and webhooks alike, so every path completes an order the same way.
type PerformPaymentUseCase struct {
	providers ProviderBinder
	orders    order.Repository
	guard     PerformGuard
	metrics   PaymentMetrics
	logger    logger.Interface
}

func NewPerformPaymentUseCase(
	providers ProviderBinder,
	orders order.Repository,
	guard PerformGuard,
	metrics PaymentMetrics,
	logger logger.Interface,
) *PerformPaymentUseCase {
	return &PerformPaymentUseCase{
		providers: providers,
		orders:    orders,
		guard:     guard,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute returns payment.ErrPerformInProgress unwrapped so callers can tell
// a concurrent attempt from a failure.
func (uc *PerformPaymentUseCase) Execute(req *payment.Request, o *order.Order) (*PerformPaymentResult, error) {
	ctx, span := tracer.Start(requestContext(req), "payment.perform")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.code", o.Code()),
		attribute.String("payment.provider", o.PaymentProvider()),
	)

	key := guardKey(o)
	token, done, err := uc.guard.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, payment.ErrPerformInProgress) {
			return nil, err
		}
		uc.logger.Errorw("failed to acquire perform guard", "order_code", o.Code(), "error", err)
		span.RecordError(err)
		return nil, apperrors.NewUnavailableError("payment is temporarily unavailable")
	}
	if done {
		stored, err := uc.orders.GetByCode(ctx, o.EventID(), o.Code())
		if err != nil {
			return nil, fmt.Errorf("failed to reload order: %w", err)
		}
		return &PerformPaymentResult{Result: payment.Completed(), Order: stored}, nil
	}

	bound, err := uc.providers.Bind(ctx, o.EventID(), o.PaymentProvider())
	if err != nil {
		uc.release(ctx, key, token)
		uc.logger.Errorw("failed to bind payment provider", "order_code", o.Code(), "provider", o.PaymentProvider(), "error", err)
		return nil, apperrors.NewConflictError("payment provider of this order is not available")
	}

	scoped := *req
	scoped.Ctx = ctx
	started := biztime.NowUTC()
	result, err := bound.CheckoutPerform(&scoped, o)
	elapsed := biztime.NowUTC().Sub(started)
	if err != nil {
		uc.release(ctx, key, token)
		uc.observe(bound.Identifier(), "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.logger.Errorw("checkout perform failed", "order_code", o.Code(), "provider", bound.Identifier(), "error", err)
		return nil, performError(err)
	}

	uc.observe(bound.Identifier(), result.Status().String(), elapsed)
	span.SetAttributes(attribute.String("payment.status", result.Status().String()))

	if result.Status() == payment.PerformCompleted {
		if err := uc.guard.Complete(ctx, key); err != nil {
			uc.logger.Warnw("failed to mark perform completed", "order_code", o.Code(), "error", err)
		}
	} else {
		uc.release(ctx, key, token)
	}

	stored, err := uc.orders.GetByCode(ctx, o.EventID(), o.Code())
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	uc.logger.Infow("checkout perform finished",
		"order_code", o.Code(),
		"provider", bound.Identifier(),
		"status", result.Status().String(),
	)
	return &PerformPaymentResult{Result: result, Order: stored}, nil
}

func (uc *PerformPaymentUseCase) release(ctx context.Context, key, token string) {
	if err := uc.guard.Release(ctx, key, token); err != nil {
		uc.logger.Warnw("failed to release perform guard", "key", key, "error", err)
	}
}

func (uc *PerformPaymentUseCase) observe(provider, status string, elapsed time.Duration) {
	if uc.metrics != nil {
		uc.metrics.ObservePerform(provider, status, elapsed)
	}
}

func guardKey(o *order.Order) string {
	return fmt.Sprintf("%d:%s", o.EventID(), o.Code())
}

func requestContext(req *payment.Request) context.Context {
	if req.Ctx == nil {
		return context.Background()
	}
	return req.Ctx
}

// performError keeps state conflicts apart from gateway failures.
func performError(err error) error {
	switch {
	case errors.Is(err, payment.ErrProviderMismatch),
		errors.Is(err, order.ErrPaidByOther),
		errors.Is(err, order.ErrNotPending),
		errors.Is(err, order.ErrVersionConflict):
		return apperrors.NewConflictError("order changed while processing the payment", err.Error())
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.NewUnavailableError("payment provider could not process the payment")
	}
}
