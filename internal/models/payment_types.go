package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment is the model for the 'payments' table (1:1 with orders).
type Payment struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	Method    PaymentMethod   `json:"method" db:"method"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    PaymentStatus   `json:"status" db:"status"`
	Reference string          `json:"reference" db:"reference"`
	PaidAt    *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// Settleable reports whether a rider can mark this payment as collected.
func (p *Payment) Settleable() bool {
	return p.Method == PaymentCash || p.Method == PaymentCard
}
