package store

import (
	"context"

	"github.com/01moynul/marketd/internal/models"
)

const userColumns = "id, role, email, password_hash, full_name, created_at, updated_at"

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, q Querier, id int64) (*models.User, error) {
	var u models.User
	if err := get(ctx, q, &u, "user", "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail is used by login.
func (s *Store) GetUserByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	var u models.User
	if err := get(ctx, q, &u, "user", "SELECT "+userColumns+" FROM users WHERE email = ?", email); err != nil {
		return nil, err
	}
	return &u, nil
}
