package domain

import "errors"

// Error kinds shared by every aggregate. Validation failures wrap one of
// these sentinels so callers can branch with errors.Is without depending on
// message text.
var (
	// ErrInvalidValue signals a single field or argument failing its constraint.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvariantViolation signals a cross-field or cross-entity rule failing,
	// such as a wrong user role or a cross-store reference.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInsufficientStock signals a stock decrease larger than the available
	// quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCurrencyMismatch signals a Money operation across different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidTransition signals an illegal order status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound is returned by repositories on lookup misses. Domain methods
	// never raise it themselves.
	ErrNotFound = errors.New("not found")
)
