package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// TransactionRunner runs fn in one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentRecorder is the host side of mark-paid handed to payment
// providers. Every write reloads the order inside a transaction, mutates a
// clone and stores it against the version it was loaded with, so a caller
// holding a stale copy cannot overwrite a newer state.
type PaymentRecorder struct {
	orders    order.Repository
	tx        TransactionRunner
	publisher events.Publisher
	logger    logger.Interface
}

func NewPaymentRecorder(orders order.Repository, tx TransactionRunner, publisher events.Publisher, logger logger.Interface) *PaymentRecorder {
	return &PaymentRecorder{orders: orders, tx: tx, publisher: publisher, logger: logger}
}

// MarkPaid returns the stored order. Marking an order the same provider
// already paid is a no-op and publishes nothing.
func (r *PaymentRecorder) MarkPaid(ctx context.Context, o *order.Order, provider, info string) (*order.Order, error) {
	var (
		stored  *order.Order
		changed bool
	)
	err := r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := r.orders.GetByCode(ctx, o.EventID(), o.Code())
		if err != nil {
			return err
		}
		if current.PaymentProvider() != provider {
			return fmt.Errorf("%w: %s", payment.ErrProviderMismatch, current.PaymentProvider())
		}

		next := current.Clone()
		changed, err = next.MarkPaid(provider, info)
		if err != nil {
			return err
		}
		if changed {
			if err := r.orders.Update(ctx, next, current.Version()); err != nil {
				return err
			}
		}
		stored = next
		return nil
	})
	if err != nil {
		if !errors.Is(err, order.ErrVersionConflict) {
			r.logger.Errorw("failed to mark order paid", "order_code", o.Code(), "provider", provider, "error", err)
		}
		return nil, err
	}

	if changed {
		r.logger.Infow("order marked paid", "order_code", stored.Code(), "event_id", stored.EventID(), "provider", provider)
		r.publish(order.NewPaidEvent(stored))
	}
	return stored, nil
}

// SavePaymentInfo stores provider data on a pending order.
func (r *PaymentRecorder) SavePaymentInfo(ctx context.Context, o *order.Order, provider, info string) (*order.Order, error) {
	var stored *order.Order
	err := r.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := r.orders.GetByCode(ctx, o.EventID(), o.Code())
		if err != nil {
			return err
		}
		if current.PaymentProvider() != provider {
			return fmt.Errorf("%w: %s", payment.ErrProviderMismatch, current.PaymentProvider())
		}

		next := current.Clone()
		if err := next.SetPaymentInfo(info); err != nil {
			return err
		}
		if next.Version() != current.Version() {
			if err := r.orders.Update(ctx, next, current.Version()); err != nil {
				return err
			}
		}
		stored = next
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to save payment info", "order_code", o.Code(), "provider", provider, "error", err)
		return nil, err
	}
	return stored, nil
}

func (r *PaymentRecorder) publish(e events.DomainEvent) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(e); err != nil {
		r.logger.Warnw("failed to dispatch event", "event_type", e.GetEventType(), "error", err)
	}
}
