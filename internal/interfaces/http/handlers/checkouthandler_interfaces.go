package handlers

import (
	"context"

	"github.com/orris-inc/ticketry/internal/application/checkout/dto"
	"github.com/orris-inc/ticketry/internal/application/checkout/usecases"
	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/payment"
)

type addToCartUseCase interface {
	Execute(ctx context.Context, scope *common.EventScope, s *payment.Session, req dto.AddToCartRequest) (*dto.CartDTO, error)
}

type listCartUseCase interface {
	Execute(s *payment.Session) *dto.CartDTO
}

type clearCartUseCase interface {
	Execute(s *payment.Session)
}

type getPaymentStepUseCase interface {
	Execute(ctx context.Context, scope *common.EventScope, req *payment.Request) (*dto.PaymentStepDTO, error)
}

type selectPaymentUseCase interface {
	Execute(ctx context.Context, scope *common.EventScope, identifier string, req *payment.Request) (*dto.PrepareResultDTO, error)
}

type getConfirmUseCase interface {
	Execute(ctx context.Context, scope *common.EventScope, req *payment.Request) (*dto.ConfirmDTO, error)
}

type placeOrderUseCase interface {
	Execute(ctx context.Context, cmd usecases.PlaceOrderCommand) (*dto.PlaceOrderResultDTO, error)
}
