package usecases

import (
	"context"
	"errors"

	"github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/domain/order"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// GetOrderControlUseCase is the organizer's view of one order including the
// provider's control fragment.
type GetOrderControlUseCase struct {
	orders    order.Repository
	providers ProviderBinder
	logger    logger.Interface
}

func NewGetOrderControlUseCase(orders order.Repository, providers ProviderBinder, logger logger.Interface) *GetOrderControlUseCase {
	return &GetOrderControlUseCase{orders: orders, providers: providers, logger: logger}
}

func (uc *GetOrderControlUseCase) Execute(ctx context.Context, eventID uint, code, locale string) (*dto.OrderControlDTO, error) {
	o, err := uc.orders.GetByCode(ctx, eventID, code)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		uc.logger.Errorw("failed to get order", "order_code", code, "error", err)
		return nil, apperrors.NewInternalError("failed to get order")
	}

	out := &dto.OrderControlDTO{Order: dto.ToOrderDTO(o), ProviderName: o.PaymentProvider()}
	bound, err := uc.providers.Bind(ctx, eventID, o.PaymentProvider())
	if err != nil {
		uc.logger.Warnw("order provider cannot be bound", "order_code", code, "provider", o.PaymentProvider(), "error", err)
		return out, nil
	}
	out.ProviderName = bound.VerboseName()

	html, err := bound.OrderControlRender(ctx, o, locale)
	if err != nil {
		uc.logger.Errorw("failed to render order control", "order_code", code, "provider", bound.Identifier(), "error", err)
		return nil, apperrors.NewInternalError("failed to render order")
	}
	out.PaymentHTML = html
	return out, nil
}
