package usecases

import (
	"context"
	"errors"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const defaultExpiryBatch = 100

// ExpireOrdersUseCase expires one batch of pending orders past their
// deadline. It satisfies the scheduler's BatchJob.
type ExpireOrdersUseCase struct {
	orders    order.Repository
	publisher events.Publisher
	batchSize int
	logger    logger.Interface
}

func NewExpireOrdersUseCase(orders order.Repository, publisher events.Publisher, batchSize int, logger logger.Interface) *ExpireOrdersUseCase {
	if batchSize <= 0 {
		batchSize = defaultExpiryBatch
	}
	return &ExpireOrdersUseCase{orders: orders, publisher: publisher, batchSize: batchSize, logger: logger}
}

// Execute returns the number of orders it looked at, so a full batch tells
// the caller to run again. Orders paid in the meantime are skipped.
func (uc *ExpireOrdersUseCase) Execute(ctx context.Context) (int, error) {
	due, err := uc.orders.GetExpiredPending(ctx, biztime.NowUTC(), uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to list expired orders", "error", err)
		return 0, err
	}

	expired := 0
	for _, o := range due {
		if err := ctx.Err(); err != nil {
			return len(due), err
		}

		next := o.Clone()
		if err := next.Expire(); err != nil {
			continue
		}
		if err := uc.orders.Update(ctx, next, o.Version()); err != nil {
			if errors.Is(err, order.ErrVersionConflict) {
				uc.logger.Debugw("order changed before expiry", "order_code", o.Code())
				continue
			}
			uc.logger.Errorw("failed to expire order", "order_code", o.Code(), "error", err)
			return len(due), err
		}
		expired++

		if uc.publisher != nil {
			if err := uc.publisher.Publish(order.NewExpiredEvent(next)); err != nil {
				uc.logger.Warnw("failed to dispatch event", "event_type", order.EventTypeExpired, "error", err)
			}
		}
	}

	if expired > 0 {
		uc.logger.Infow("expired pending orders", "count", expired)
	}
	return len(due), nil
}
