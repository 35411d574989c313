package models

import "time"

// Address is the model for the 'addresses' table.
// Street, City, State, PostalCode and Country form the dedup key per user.
type Address struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Street     string    `json:"street" db:"street"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	PostalCode string    `json:"postalCode" db:"postal_code"`
	Country    string    `json:"country" db:"country"`
	Building   *string   `json:"building,omitempty" db:"building"`
	Latitude   *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude  *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// AddressKey is the required-field tuple used to find an existing address.
type AddressKey struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Key returns the dedup tuple of a.
func (a *Address) Key() AddressKey {
	return AddressKey{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
