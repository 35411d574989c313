package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAssigned  OrderStatus = "assigned"
	StatusInTransit OrderStatus = "in_transit"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
	StatusFailed    OrderStatus = "failed"
)

// Order is the model for the 'orders' table
type Order struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"userId" db:"user_id"` // The purchaser
	AddressID  int64           `json:"addressId" db:"address_id"`
	BusinessID int64           `json:"businessId" db:"business_id"` // Taken from the first item
	RiderID    *int64          `json:"riderId,omitempty" db:"rider_id"`
	Total      decimal.Decimal `json:"total" db:"total"`
	Status     OrderStatus     `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"` // Price at the time of purchase
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// Subtotal is the line's price snapshot times its quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemDetail extends the base OrderItem to include Product info
type OrderItemDetail struct {
	OrderItem
	ProductName string `json:"productName" db:"product_name"`
}

// OrderDetail is an order joined to its items and address, plus the
// related parties each listing chooses to expose.
type OrderDetail struct {
	Order
	Items    []OrderItemDetail `json:"items"`
	Address  *Address          `json:"address,omitempty"`
	Business *Business         `json:"business,omitempty"`
	User     *UserSummary      `json:"user,omitempty"`
	Rider    *UserSummary      `json:"rider,omitempty"`
	Payment  *Payment          `json:"payment,omitempty"`
}

// StatusChange is the model for the 'order_status_history' table.
type StatusChange struct {
	ID         int64       `json:"id" db:"id"`
	OrderID    int64       `json:"orderId" db:"order_id"`
	FromStatus OrderStatus `json:"fromStatus" db:"from_status"`
	ToStatus   OrderStatus `json:"toStatus" db:"to_status"`
	ActorID    int64       `json:"actorId" db:"actor_id"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}
