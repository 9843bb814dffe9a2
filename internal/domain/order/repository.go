package order

import (
	"context"
	"time"

	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
)

// AnswerCount is one row of the question statistics.
type AnswerCount struct {
	Answer string
	Count  int64
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	// Update persists o if the stored version equals expectedVersion and
	// returns ErrVersionConflict otherwise.
	Update(ctx context.Context, o *Order, expectedVersion int) error
	GetByCode(ctx context.Context, eventID uint, code string) (*Order, error)
	GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*Order, error)
	HasPositionsForItem(ctx context.Context, itemID uint) (bool, error)
	// CountPositions counts positions of orders in the given statuses that
	// match the item and, when set, the variation.
	CountPositions(ctx context.Context, itemID uint, variationID *uint, statuses []vo.OrderStatus) (int64, error)
	// AnswerCounts groups the answers to questionID, most frequent first.
	// An empty status filter counts answers of all orders.
	AnswerCounts(ctx context.Context, questionID uint, status vo.OrderStatus) ([]AnswerCount, error)
}
