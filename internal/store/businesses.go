package store

import (
	"context"

	"github.com/01moynul/marketd/internal/models"
)

const businessColumns = "id, vendor_id, name, slug, created_at"

func (s *Store) GetBusiness(ctx context.Context, q Querier, id int64) (*models.Business, error) {
	var b models.Business
	if err := get(ctx, q, &b, "business", "SELECT "+businessColumns+" FROM businesses WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &b, nil
}

// InsertBusiness persists b. A taken slug yields ErrDuplicate.
func (s *Store) InsertBusiness(ctx context.Context, q Querier, b *models.Business) error {
	id, err := insert(ctx, q, "business",
		"INSERT INTO businesses (vendor_id, name, slug, created_at) VALUES (?, ?, ?, ?)",
		b.VendorID, b.Name, b.Slug, b.CreatedAt)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}
