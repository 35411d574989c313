package store

import (
	"context"

	"github.com/01moynul/marketd/internal/models"
)

const addressColumns = "id, user_id, street, city, state, postal_code, country, building, latitude, longitude, created_at"

// FindAddress returns the user's address matching key exactly.
// The key columns use a binary collation, so the match is case-sensitive.
func (s *Store) FindAddress(ctx context.Context, q Querier, userID int64, key models.AddressKey) (*models.Address, error) {
	return findAddress(ctx, q, userID, key, "")
}

// FindAddressForUpdate is FindAddress as a locking read. Inside a
// transaction it sees rows committed after the transaction's snapshot.
func (s *Store) FindAddressForUpdate(ctx context.Context, q Querier, userID int64, key models.AddressKey) (*models.Address, error) {
	return findAddress(ctx, q, userID, key, " FOR UPDATE")
}

func findAddress(ctx context.Context, q Querier, userID int64, key models.AddressKey, lock string) (*models.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = ? AND street = ? AND city = ? AND state = ? AND postal_code = ? AND country = ?
		ORDER BY id
		LIMIT 1` + lock

	var a models.Address
	err := get(ctx, q, &a, "address", query,
		userID, key.Street, key.City, key.State, key.PostalCode, key.Country)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertAddress persists a and sets its ID. An address with the same key
// for the same user yields ErrDuplicate.
func (s *Store) InsertAddress(ctx context.Context, q Querier, a *models.Address) error {
	query := `
		INSERT INTO addresses
		(user_id, street, city, state, postal_code, country, building, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insert(ctx, q, "address", query,
		a.UserID, a.Street, a.City, a.State, a.PostalCode, a.Country,
		a.Building, a.Latitude, a.Longitude, a.CreatedAt)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}
