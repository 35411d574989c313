// Package notify delivers the side effects of order operations after the
// database work has committed. Delivery is best effort: nothing here can
// fail the operation that produced the effect.
package notify

import "time"

// Event names what happened.
type Event string

const (
	EventOrderPlaced   Event = "order.placed"
	EventRiderAssigned Event = "order.rider_assigned"
	EventStatusChanged Event = "order.status_changed"
	EventPaymentPaid   Event = "payment.paid"
)

// Effect is a notification owed to one user.
type Effect struct {
	UserID  int64                  `json:"userId"`
	Event   Event                  `json:"event"`
	Message string                 `json:"message"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	At      time.Time              `json:"at"`
}
