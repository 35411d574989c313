// Package fulfillment holds the order status transition table.
package fulfillment

import (
	"errors"
	"fmt"

	"github.com/01moynul/marketd/internal/models"
)

// ErrInvalidTransition is returned for any move the table does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError names the rejected move.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending: {
		models.StatusAssigned,
		models.StatusCancelled,
	},
	// assigned -> assigned is a rider re-assignment.
	models.StatusAssigned: {
		models.StatusAssigned,
		models.StatusInTransit,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCancelled,
		models.StatusFailed,
	},
	models.StatusInTransit: {
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusFailed,
	},
	models.StatusShipped: {
		models.StatusDelivered,
		models.StatusFailed,
	},
	models.StatusFailed: {
		models.StatusAssigned,
		models.StatusCancelled,
	},
	models.StatusDelivered: nil,
	models.StatusCancelled: nil,
}

// GeneralStatuses are the targets admins and vendors may request. pending
// is only ever the initial status, and assigned additionally needs a rider
// on the order.
var GeneralStatuses = []models.OrderStatus{
	models.StatusAssigned,
	models.StatusInTransit,
	models.StatusDelivered,
	models.StatusCancelled,
}

// RiderStatuses are the targets an assigned rider may request. failed
// records a delivery attempt that did not succeed.
var RiderStatuses = []models.OrderStatus{
	models.StatusShipped,
	models.StatusDelivered,
	models.StatusFailed,
}

// CanTransition reports whether from -> to is in the table.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns nil when from -> to is allowed, or a *TransitionError.
func Transition(from, to models.OrderStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// Contains reports whether s is one of set.
func Contains(set []models.OrderStatus, s models.OrderStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
