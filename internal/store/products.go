package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/01moynul/marketd/internal/models"
)

const productColumns = "id, business_id, name, price, stock, created_at, updated_at"

// GetProduct loads a product without locking it.
func (s *Store) GetProduct(ctx context.Context, q Querier, id int64) (*models.Product, error) {
	var p models.Product
	if err := get(ctx, q, &p, "product", "SELECT "+productColumns+" FROM products WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductForUpdate loads a product and locks its row until the
// surrounding transaction ends.
func (s *Store) GetProductForUpdate(ctx context.Context, q Querier, id int64) (*models.Product, error) {
	var p models.Product
	if err := get(ctx, q, &p, "product", "SELECT "+productColumns+" FROM products WHERE id = ? FOR UPDATE", id); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock subtracts qty from the product's stock only if that leaves
// it non-negative. ErrNotEnoughStock means no row was changed.
func (s *Store) DecrementStock(ctx context.Context, q Querier, id int64, qty int) error {
	query := "UPDATE products SET stock = stock - ?, updated_at = NOW() WHERE id = ? AND stock >= ?"

	result, err := q.ExecContext(ctx, query, qty, id, qty)
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "check affected rows")
	}
	if rows == 0 {
		return errors.Wrapf(ErrNotEnoughStock, "product %d", id)
	}
	return nil
}

// InsertProduct persists p and sets its ID.
func (s *Store) InsertProduct(ctx context.Context, q Querier, p *models.Product) error {
	query := `
		INSERT INTO products (business_id, name, price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	id, err := insert(ctx, q, "product", query, p.BusinessID, p.Name, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}
