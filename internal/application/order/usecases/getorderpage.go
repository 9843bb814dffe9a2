package usecases

import (
	"context"
	"crypto/subtle"
	"errors"
	"html/template"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

type GetOrderPageQuery struct {
	Scope   *common.EventScope
	Code    string
	Secret  string
	Request *payment.Request
}

type GetOrderPageUseCase struct {
	orders    order.Repository
	providers ProviderBinder
	logger    logger.Interface
}

func NewGetOrderPageUseCase(orders order.Repository, providers ProviderBinder, logger logger.Interface) *GetOrderPageUseCase {
	return &GetOrderPageUseCase{orders: orders, providers: providers, logger: logger}
}

func (uc *GetOrderPageUseCase) Execute(ctx context.Context, query GetOrderPageQuery) (*dto.OrderPageDTO, error) {
	o, err := findOrder(ctx, uc.orders, query.Scope.Event.ID(), query.Code, query.Secret)
	if err != nil {
		return nil, err
	}

	page := &dto.OrderPageDTO{
		Order:     dto.ToOrderDTO(o),
		EventName: query.Scope.Event.Name().Localize(query.Request.Locale),
		Currency:  query.Scope.Event.Currency(),
		CanRetry:  o.Status().IsPending() && !o.IsExpired(biztime.NowUTC()),
	}

	bound, err := uc.providers.Bind(ctx, o.EventID(), o.PaymentProvider())
	if err != nil {
		uc.logger.Warnw("order provider cannot be bound", "order_code", o.Code(), "provider", o.PaymentProvider(), "error", err)
		page.CanRetry = false
		return page, nil
	}

	var html template.HTML
	switch {
	case o.Status().IsPending():
		html, err = bound.OrderPendingRender(query.Request, o)
	case o.Status().IsPaid():
		html, err = bound.OrderPaidRender(query.Request, o)
	}
	if err != nil {
		uc.logger.Errorw("failed to render payment state", "order_code", o.Code(), "provider", bound.Identifier(), "error", err)
		return nil, apperrors.NewInternalError("failed to render order page")
	}
	page.PaymentHTML = html
	return page, nil
}

// findOrder loads an order for the attendee. A wrong secret looks exactly
// like an unknown code.
func findOrder(ctx context.Context, orders order.Repository, eventID uint, code, secret string) (*order.Order, error) {
	o, err := orders.GetByCode(ctx, eventID, code)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(o.Secret()), []byte(secret)) != 1 {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return o, nil
}
