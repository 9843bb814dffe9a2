package payment

import "errors"

var (
	// ErrNotImplemented marks a provider definition that lacks a required
	// member. It is returned at registration and is fatal at startup.
	ErrNotImplemented      = errors.New("payment provider is not fully implemented")
	ErrInvalidIdentifier   = errors.New("invalid payment provider identifier")
	ErrDuplicateIdentifier = errors.New("payment provider identifier already registered")
	ErrProviderNotFound    = errors.New("payment provider not found")
	ErrProviderDisabled    = errors.New("payment provider is disabled")
	ErrProviderMismatch    = errors.New("order belongs to another payment provider")
	ErrRequired            = errors.New("this field is required")
	ErrInvalidChoice       = errors.New("select a valid choice")
	ErrInvalidDecimal      = errors.New("enter a number")
	ErrInvalidEmail        = errors.New("enter a valid email address")
	// ErrPerformInProgress is returned while another request performs the
	// payment of the same order.
	ErrPerformInProgress = errors.New("payment for this order is already in progress")
)
