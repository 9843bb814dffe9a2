package usecases

import (
	"context"
	"errors"
	"strconv"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

type HandleStripeWebhookCommand struct {
	Payload   []byte
	Signature string
	BaseURL   string
}

// HandleStripeWebhookUseCase completes orders from Stripe checkout session
// events by running the regular guarded perform. Stripe retries deliveries
// that do not get a 2xx, so only signature errors and transient failures
// are reported back.
type HandleStripeWebhookUseCase struct {
	secret  string
	events  *common.EventResolver
	orders  order.Repository
	perform *PerformPaymentUseCase
	logger  logger.Interface
}

func NewHandleStripeWebhookUseCase(
	secret string,
	events *common.EventResolver,
	orders order.Repository,
	perform *PerformPaymentUseCase,
	logger logger.Interface,
) *HandleStripeWebhookUseCase {
	return &HandleStripeWebhookUseCase{
		secret:  secret,
		events:  events,
		orders:  orders,
		perform: perform,
		logger:  logger,
	}
}

func (uc *HandleStripeWebhookUseCase) Execute(ctx context.Context, cmd HandleStripeWebhookCommand) error {
	if uc.secret == "" {
		return apperrors.NewUnavailableError("stripe webhooks are not configured")
	}

	evt, err := stripe.ParseWebhook(cmd.Payload, cmd.Signature, uc.secret)
	if err != nil {
		uc.logger.Warnw("rejected stripe webhook", "error", err)
		return apperrors.NewBadRequestError("invalid webhook signature")
	}
	if !evt.AffectsOrder() {
		uc.logger.Debugw("ignoring stripe webhook", "event_id", evt.ID, "type", evt.Type)
		return nil
	}

	eventID, err := strconv.ParseUint(evt.Session.EventID, 10, 64)
	if err != nil {
		uc.logger.Warnw("stripe session without event reference", "event_id", evt.ID, "session_id", evt.Session.ID)
		return nil
	}
	scope, err := uc.events.ByID(ctx, uint(eventID))
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			uc.logger.Warnw("stripe webhook for unknown event", "event_id", eventID)
			return nil
		}
		return err
	}

	o, err := uc.orders.GetByCode(ctx, scope.Event.ID(), evt.Session.OrderCode)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			uc.logger.Warnw("stripe webhook for unknown order", "order_code", evt.Session.OrderCode)
			return nil
		}
		return err
	}
	if o.PaymentProvider() != stripe.Identifier {
		uc.logger.Warnw("stripe webhook for order of another provider", "order_code", o.Code(), "provider", o.PaymentProvider())
		return nil
	}

	req := &payment.Request{
		Ctx:      stripe.WithWebhookEvent(ctx, evt),
		Event:    scope.PaymentEvent(o.Locale()),
		Messages: &payment.Messages{},
		Locale:   o.Locale(),
		BaseURL:  cmd.BaseURL,
	}
	res, err := uc.perform.Execute(req, o)
	switch {
	case errors.Is(err, payment.ErrPerformInProgress):
		return apperrors.NewConflictError("payment is being processed")
	case apperrors.IsConflictError(err):
		uc.logger.Warnw("stripe webhook conflicts with order state", "order_code", o.Code(), "error", err)
		return nil
	case err != nil:
		return err
	}

	uc.logger.Infow("stripe webhook processed",
		"event_id", evt.ID,
		"type", evt.Type,
		"order_code", o.Code(),
		"status", res.Result.Status().String(),
	)
	return nil
}
