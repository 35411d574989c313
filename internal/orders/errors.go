package orders

import (
	"errors"
	"fmt"

	"github.com/01moynul/marketd/internal/fulfillment"
)

// Error taxonomy. Handlers map these to status codes; anything else is an
// internal failure.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("not allowed to perform this action")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidRider      = errors.New("target user is not a rider")
	ErrConflict          = errors.New("conflict")
	ErrMixedBusiness     = errors.New("all items in an order must belong to the same business")
	ErrInvalidTransition = fulfillment.ErrInvalidTransition
)

// InsufficientStockError names the product that could not cover the request.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q (product %d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
