package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Stock is set when the product is listed and afterwards only moves down
// through order placement.
type Product struct {
	ID         int64           `json:"id" db:"id"`
	BusinessID int64           `json:"businessId" db:"business_id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Stock      int             `json:"stock" db:"stock"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}
