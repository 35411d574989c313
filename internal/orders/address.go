package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// AddressInput is the candidate delivery address sent with an order.
type AddressInput struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Building   *string
	Latitude   *float64
	Longitude  *float64
}

func (in AddressInput) key() models.AddressKey {
	return models.AddressKey{
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
}

// Validate checks the five required fields are present.
func (in AddressInput) Validate() error {
	fields := []struct{ name, value string }{
		{"street", in.Street},
		{"city", in.City},
		{"state", in.State},
		{"postalCode", in.PostalCode},
		{"country", in.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return validationf("address %s is required", f.name)
		}
	}
	return nil
}

// AddressResolver finds or creates a user's delivery address.
type AddressResolver struct {
	store *store.Store
}

// Resolve returns the user's existing address with the same required fields,
// unchanged, or creates one from in. Optional fields on in are ignored when an
// address already exists.
func (r *AddressResolver) Resolve(ctx context.Context, q store.Querier, userID int64, in AddressInput, now time.Time) (*models.Address, error) {
	existing, err := r.store.FindAddress(ctx, q, userID, in.key())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	addr := &models.Address{
		UserID:     userID,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Building:   in.Building,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		CreatedAt:  now,
	}
	err = r.store.InsertAddress(ctx, q, addr)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent placement created it after our read.
		return r.store.FindAddressForUpdate(ctx, q, userID, in.key())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return addr, nil
}
