package models

import "time"

// Business is the model for the 'businesses' table.
type Business struct {
	ID        int64     `json:"id" db:"id"`
	VendorID  int64     `json:"vendorId" db:"vendor_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
