package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate
// these into HTTP status codes and response envelopes.
var (
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition means an order status change violates the
	// lifecycle rules, or a concurrent writer already moved the order.
	ErrInvalidTransition = errors.New("order status change not allowed")

	// ErrConflict means the write collides with existing state, such as an
	// overlapping availability slot or a duplicate review.
	ErrConflict = errors.New("conflicting record exists")

	// ErrPaymentDeclined means the payment gateway rejected the charge.
	// Nothing is persisted; the caller may retry with another method.
	ErrPaymentDeclined = errors.New("payment declined")
)
