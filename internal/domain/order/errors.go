package order

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotPending       = errors.New("order is not pending")
	ErrPaidByOther      = errors.New("order was paid through another provider")
	ErrVersionConflict  = errors.New("order was modified concurrently")
	ErrEmptyOrder       = errors.New("order has no positions")
	ErrInvalidPosition  = errors.New("invalid order position")
	ErrProviderRequired = errors.New("payment provider is required")
)
