package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/01moynul/marketd/internal/models"
)

const paymentColumns = "id, order_id, method, amount, status, reference, paid_at, created_at, updated_at"

// GetPayment returns the payment attached to an order.
func (s *Store) GetPayment(ctx context.Context, q Querier, orderID int64) (*models.Payment, error) {
	var p models.Payment
	if err := get(ctx, q, &p, "payment", "SELECT "+paymentColumns+" FROM payments WHERE order_id = ?", orderID); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPaymentForUpdate is GetPayment with a row lock.
func (s *Store) GetPaymentForUpdate(ctx context.Context, q Querier, orderID int64) (*models.Payment, error) {
	var p models.Payment
	if err := get(ctx, q, &p, "payment", "SELECT "+paymentColumns+" FROM payments WHERE order_id = ? FOR UPDATE", orderID); err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPayment persists p. A second payment for the same order yields ErrDuplicate.
func (s *Store) InsertPayment(ctx context.Context, q Querier, p *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, method, amount, status, reference, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := insert(ctx, q, "payment", query,
		p.OrderID, p.Method, p.Amount, p.Status, p.Reference, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// MarkPaymentPaid flips the payment to paid at the given time.
func (s *Store) MarkPaymentPaid(ctx context.Context, q Querier, id int64, at time.Time) error {
	_, err := q.ExecContext(ctx,
		"UPDATE payments SET status = ?, paid_at = ?, updated_at = ? WHERE id = ?",
		models.PaymentPaid, at, at, id)
	return errors.Wrap(err, "mark payment paid")
}
