package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/email"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const paidMailTimeout = 30 * time.Second

// MailSender delivers one mail.
type MailSender interface {
	Send(ctx context.Context, m email.Mail) error
}

// Subscriber registers event handlers.
type Subscriber interface {
	Subscribe(eventType string, fn events.HandlerFunc) error
}

// OrderMailer sends the attendee mails of an order. The placed mail carries
// the provider's pending text, such as bank details.
type OrderMailer struct {
	events    *common.EventResolver
	orders    order.Repository
	providers ProviderBinder
	sender    MailSender
	baseURL   string
	logger    logger.Interface
}

func NewOrderMailer(
	events *common.EventResolver,
	orders order.Repository,
	providers ProviderBinder,
	sender MailSender,
	baseURL string,
	logger logger.Interface,
) *OrderMailer {
	return &OrderMailer{
		events:    events,
		orders:    orders,
		providers: providers,
		sender:    sender,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// Register subscribes the paid mail to order.paid.
func (m *OrderMailer) Register(sub Subscriber) error {
	return sub.Subscribe(order.EventTypePaid, m.handlePaid)
}

func (m *OrderMailer) SendPlaced(ctx context.Context, o *order.Order) error {
	data, bound, err := m.mailData(ctx, o)
	if err != nil {
		return err
	}
	if bound != nil {
		text, err := bound.OrderPendingMailRender(ctx, o)
		if err != nil {
			return fmt.Errorf("failed to render pending mail text: %w", err)
		}
		data.ProviderText = text
	}

	if err := m.sender.Send(ctx, email.OrderPlacedMail(data)); err != nil {
		m.logger.Errorw("failed to send order placed mail", "order_code", o.Code(), "error", err)
		return err
	}
	return nil
}

func (m *OrderMailer) SendPaid(ctx context.Context, o *order.Order) error {
	data, _, err := m.mailData(ctx, o)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email.OrderPaidMail(data)); err != nil {
		m.logger.Errorw("failed to send order paid mail", "order_code", o.Code(), "error", err)
		return err
	}
	return nil
}

func (m *OrderMailer) handlePaid(e events.DomainEvent) error {
	paid, ok := e.(*order.PaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}

	ctx, cancel := context.WithTimeout(context.Background(), paidMailTimeout)
	defer cancel()

	o, err := m.orders.GetByCode(ctx, paid.EventID, paid.GetAggregateID())
	if err != nil {
		return fmt.Errorf("failed to load paid order: %w", err)
	}
	return m.SendPaid(ctx, o)
}

// mailData returns a nil bound provider when the order's provider is no
// longer registered.
func (m *OrderMailer) mailData(ctx context.Context, o *order.Order) (email.OrderMailData, *payment.Bound, error) {
	scope, err := m.events.ByID(ctx, o.EventID())
	if err != nil {
		return email.OrderMailData{}, nil, err
	}
	ev := scope.PaymentEvent(o.Locale())

	data := email.OrderMailData{
		To:        o.Email(),
		Locale:    o.Locale(),
		EventName: ev.Name,
		Code:      o.Code(),
		Total:     o.Total(),
		Currency:  ev.Currency,
		OrderURL:  payment.OrderURL(m.baseURL, ev, o),
	}

	bound, err := m.providers.Bind(ctx, o.EventID(), o.PaymentProvider())
	if err != nil {
		m.logger.Warnw("order provider cannot be bound", "order_code", o.Code(), "provider", o.PaymentProvider(), "error", err)
		return data, nil, nil
	}
	data.Provider = payment.Printer(o.Locale()).Sprintf(bound.VerboseName())
	return data, bound, nil
}
