package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// RecordPayment attaches a pending payment for the order's total. Only the
// purchaser may do this, once per order.
func (s *Service) RecordPayment(ctx context.Context, actor access.Actor, orderID int64, method models.PaymentMethod) (*models.Payment, error) {
	if method != models.PaymentCash && method != models.PaymentCard {
		return nil, validationf("unsupported payment method %q", method)
	}

	now := s.now()
	var payment *models.Payment

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		order, res, err := s.lockOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if !actor.Can(access.RecordPayment, res) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		if order.Status == models.StatusCancelled {
			return fmt.Errorf("%w: order %d is cancelled", ErrConflict, orderID)
		}

		payment = &models.Payment{
			OrderID:   order.ID,
			Method:    method,
			Amount:    order.Total,
			Status:    models.PaymentPending,
			Reference: uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = s.store.InsertPayment(ctx, q, payment)
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("%w: order %d already has a payment", ErrConflict, orderID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
