package usecases

import (
	"context"
	"errors"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const msgPerformInProgress = "Your payment is being processed. Please reload this page in a moment."

type PayOrderCommand struct {
	Scope   *common.EventScope
	Code    string
	Secret  string
	Request *payment.Request
}

// PayOrderUseCase retries the payment of a pending order from the order
// page. Provider return URLs go through it as well.
type PayOrderUseCase struct {
	orders  order.Repository
	perform *PerformPaymentUseCase
	logger  logger.Interface
}

func NewPayOrderUseCase(orders order.Repository, perform *PerformPaymentUseCase, logger logger.Interface) *PayOrderUseCase {
	return &PayOrderUseCase{orders: orders, perform: perform, logger: logger}
}

func (uc *PayOrderUseCase) Execute(ctx context.Context, cmd PayOrderCommand) (*dto.PerformResultDTO, error) {
	o, err := findOrder(ctx, uc.orders, cmd.Scope.Event.ID(), cmd.Code, cmd.Secret)
	if err != nil {
		return nil, err
	}
	if o.Status().IsPending() && o.IsExpired(biztime.NowUTC()) {
		return nil, apperrors.NewConflictError("order has expired")
	}

	cmd.Request.Ctx = ctx
	return uc.perform.ExecuteForVisitor(cmd.Request, o)
}

// ExecuteForVisitor is Execute for a visitor's request. A concurrent attempt
// becomes a deferred result with a notice instead of an error page, and a
// declined payment is reported through the request messages.
func (uc *PerformPaymentUseCase) ExecuteForVisitor(req *payment.Request, o *order.Order) (*dto.PerformResultDTO, error) {
	res, err := uc.Execute(req, o)
	if errors.Is(err, payment.ErrPerformInProgress) {
		if req.Messages != nil {
			req.Messages.Info(payment.Printer(req.Locale).Sprintf(msgPerformInProgress))
		}
		return &dto.PerformResultDTO{Status: payment.PerformDeferred.String()}, nil
	}
	if err != nil {
		return nil, err
	}
	out := dto.ToPerformResultDTO(res.Result)
	if out.Status == payment.PerformDeclined.String() && req.Messages != nil && out.Message != "" {
		req.Messages.Error(out.Message)
	}
	return out, nil
}
