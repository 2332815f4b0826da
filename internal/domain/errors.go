package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotAuthenticated indicates no caller identity was supplied.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnauthorized indicates the caller does not own the entity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyCart indicates checkout was attempted with no cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidAddress indicates the shipping address is missing or not owned by the caller.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidTransition indicates an illegal order status change.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrInvalidSignature indicates payment verification failed.
	ErrInvalidSignature = errors.New("invalid signature")
)

// ValidationError carries a message about malformed or out-of-range input.
type ValidationError struct {
	msg string
}

// Invalid builds a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// InsufficientStockError names the product whose stock cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.ProductName, e.Available, e.Requested)
}

// GatewayError wraps a failure reported by the payment gateway.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
