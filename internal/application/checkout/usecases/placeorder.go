package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/orris-inc/ticketry/internal/application/checkout/dto"
	"github.com/orris-inc/ticketry/internal/application/common"
	orderdto "github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

const (
	msgPerformFailed  = "Your order was placed, but the payment could not be started. You can retry it from your order page."
	DefaultOrderExpiry = 3 * 24 * time.Hour
)

// OrderPerformer runs checkout_perform under the idempotency guard.
type OrderPerformer interface {
	ExecuteForVisitor(req *payment.Request, o *order.Order) (*orderdto.PerformResultDTO, error)
}

type PlacedMailer interface {
	SendPlaced(ctx context.Context, o *order.Order) error
}

type PlaceOrderCommand struct {
	Scope   *common.EventScope
	Email   string
	Request *payment.Request
}

type placeOrderInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// PlaceOrderUseCase turns the cart into a pending order, mails the
// confirmation and performs the payment once.
type PlaceOrderUseCase struct {
	providers ProviderLister
	orders    order.Repository
	publisher events.Publisher
	mailer    PlacedMailer
	perform   OrderPerformer
	expiry    time.Duration
	logger    logger.Interface
}

func NewPlaceOrderUseCase(
	providers ProviderLister,
	orders order.Repository,
	publisher events.Publisher,
	mailer PlacedMailer,
	perform OrderPerformer,
	expiry time.Duration,
	logger logger.Interface,
) *PlaceOrderUseCase {
	if expiry <= 0 {
		expiry = DefaultOrderExpiry
	}
	return &PlaceOrderUseCase{
		providers: providers,
		orders:    orders,
		publisher: publisher,
		mailer:    mailer,
		perform:   perform,
		expiry:    expiry,
		logger:    logger,
	}
}

func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderCommand) (*dto.PlaceOrderResultDTO, error) {
	input := placeOrderInput{Email: strings.TrimSpace(cmd.Email)}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if !cmd.Scope.Event.PresaleOpen(biztime.NowUTC()) {
		return nil, apperrors.NewConflictError("the presale for this event is over")
	}

	req := cmd.Request
	req.Ctx = ctx
	if req.Messages == nil {
		req.Messages = &payment.Messages{}
	}
	cart := loadCart(req.Session)
	if len(cart) == 0 {
		return nil, errEmptyCart
	}
	b, err := confirmableProvider(ctx, uc.providers, cmd.Scope, req)
	if err != nil {
		return nil, err
	}

	positions := make([]*order.Position, 0, len(cart))
	for _, cp := range cart {
		p, err := order.NewPosition(cp.ItemID, cp.VariationID, cp.Price, cp.AttendeeName, cp.Answers)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		positions = append(positions, p)
	}

	fee := b.CalculateFee(payment.SubtotalOf(cart))
	o, err := order.NewOrder(cmd.Scope.Event.ID(), input.Email, req.Locale, b.Identifier(), cmd.Scope.Event.Currency(), fee, positions, uc.expiry)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		uc.logger.Errorw("failed to create order", "event_id", cmd.Scope.Event.ID(), "error", err)
		return nil, apperrors.NewInternalError("failed to place order")
	}
	uc.logger.Infow("order placed",
		"event_id", cmd.Scope.Event.ID(),
		"order_code", o.Code(),
		"provider", b.Identifier(),
		"total", o.Total().String(),
	)

	if uc.publisher != nil {
		if err := uc.publisher.Publish(order.NewPlacedEvent(o)); err != nil {
			uc.logger.Warnw("failed to publish order placed event", "order_code", o.Code(), "error", err)
		}
	}
	if uc.mailer != nil {
		if err := uc.mailer.SendPlaced(ctx, o); err != nil {
			uc.logger.Warnw("failed to send order confirmation", "order_code", o.Code(), "error", err)
		}
	}

	out := &dto.PlaceOrderResultDTO{
		Order:    orderdto.ToOrderDTO(o),
		OrderURL: payment.OrderURL(req.BaseURL, req.Event, o),
	}
	res, err := uc.perform.ExecuteForVisitor(req, o)
	if err != nil {
		uc.logger.Warnw("payment after placing order failed", "order_code", o.Code(), "error", err)
		req.Messages.Error(payment.Printer(req.Locale).Sprintf(msgPerformFailed))
	} else {
		out.Payment = res
	}

	// The provider data is cleared only after perform, which may still read it.
	req.Session.Delete(cartKey)
	req.Session.Delete(providerKey)
	req.Session.Scope(b.Identifier()).Clear()

	if stored, err := uc.orders.GetByCode(ctx, o.EventID(), o.Code()); err == nil {
		out.Order = orderdto.ToOrderDTO(stored)
	}
	out.Messages = req.Messages.All()
	return out, nil
}
