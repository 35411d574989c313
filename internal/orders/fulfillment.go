package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/fulfillment"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/notify"
	"github.com/01moynul/marketd/internal/store"
)

// lockOrder loads and locks an order, mapping a missing row to ErrNotFound.
func (s *Service) lockOrder(ctx context.Context, q store.Querier, orderID int64) (*models.Order, access.Resource, error) {
	order, vendorID, err := s.store.GetOrderForUpdate(ctx, q, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, access.Resource{}, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, access.Resource{}, err
	}
	return order, access.OrderResource(order, vendorID), nil
}

// moveStatus checks the transition table, then writes the new status and a
// history row. It does not touch rider_id.
func (s *Service) moveStatus(ctx context.Context, q store.Querier, actor access.Actor, order *models.Order, to models.OrderStatus, now time.Time) error {
	if err := fulfillment.Transition(order.Status, to); err != nil {
		return err
	}
	if err := s.store.SetOrderStatus(ctx, q, order.ID, to, now); err != nil {
		return err
	}
	return s.recordChange(ctx, q, actor, order, to, now)
}

func (s *Service) recordChange(ctx context.Context, q store.Querier, actor access.Actor, order *models.Order, to models.OrderStatus, now time.Time) error {
	change := &models.StatusChange{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   to,
		ActorID:    actor.ID(),
		CreatedAt:  now,
	}
	if err := s.store.InsertStatusChange(ctx, q, change); err != nil {
		return err
	}
	order.Status = to
	order.UpdatedAt = now
	return nil
}

func statusEffect(order *models.Order, now time.Time) notify.Effect {
	return notify.Effect{
		UserID:  order.UserID,
		Event:   notify.EventStatusChanged,
		Message: fmt.Sprintf("Order #%d is now %s", order.ID, order.Status),
		Payload: map[string]interface{}{
			"orderId": order.ID,
			"status":  order.Status,
		},
		At: now,
	}
}

// AssignRider sets the order's rider and moves it to assigned. Only an admin
// or the vendor owning the order's business may do this, and the target must
// be a rider.
func (s *Service) AssignRider(ctx context.Context, actor access.Actor, orderID, riderID int64) (*models.Order, []notify.Effect, error) {
	now := s.now()
	var order *models.Order

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		var res access.Resource
		var err error
		order, res, err = s.lockOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if !actor.Can(access.AssignRider, res) {
			return ErrUnauthorized
		}

		rider, err := s.store.GetUser(ctx, q, riderID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: user %d does not exist", ErrInvalidRider, riderID)
		}
		if err != nil {
			return err
		}
		if rider.Role != models.RoleRider {
			return fmt.Errorf("%w: user %d has role %s", ErrInvalidRider, riderID, rider.Role)
		}

		if err := fulfillment.Transition(order.Status, models.StatusAssigned); err != nil {
			return err
		}
		if err := s.store.SetOrderRider(ctx, q, order.ID, riderID, models.StatusAssigned, now); err != nil {
			return err
		}
		order.RiderID = &riderID
		return s.recordChange(ctx, q, actor, order, models.StatusAssigned, now)
	})
	if err != nil {
		return nil, nil, err
	}

	effects := []notify.Effect{{
		UserID:  riderID,
		Event:   notify.EventRiderAssigned,
		Message: fmt.Sprintf("You have been assigned order #%d", order.ID),
		Payload: map[string]interface{}{"orderId": order.ID},
		At:      now,
	}}
	return order, effects, nil
}

// UpdateStatus moves an order to one of the general statuses on behalf of
// an admin or the owning vendor.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, orderID int64, status models.OrderStatus) (*models.Order, []notify.Effect, error) {
	if !fulfillment.Contains(fulfillment.GeneralStatuses, status) {
		return nil, nil, validationf("unsupported status %q", status)
	}

	now := s.now()
	var order *models.Order

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		var res access.Resource
		var err error
		order, res, err = s.lockOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if !actor.Can(access.UpdateStatus, res) {
			return ErrUnauthorized
		}
		if status == models.StatusAssigned && order.RiderID == nil {
			return fmt.Errorf("%w: order %d has no rider, assign one instead",
				&fulfillment.TransitionError{From: order.Status, To: status}, orderID)
		}
		return s.moveStatus(ctx, q, actor, order, status, now)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, []notify.Effect{statusEffect(order, now)}, nil
}

// DeliveryUpdate is the result of a rider status update.
type DeliveryUpdate struct {
	Order   *models.Order   `json:"order"`
	Payment *models.Payment `json:"payment,omitempty"`
}

// UpdateDeliveryStatus lets the assigned rider mark an order shipped or
// delivered. Any other caller gets ErrNotFound so the order's existence is
// not confirmed. With markPaid, an attached cash or card payment is settled.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, actor access.Actor, orderID int64, status models.OrderStatus, markPaid bool) (*DeliveryUpdate, []notify.Effect, error) {
	if !fulfillment.Contains(fulfillment.RiderStatuses, status) {
		return nil, nil, validationf("unsupported delivery status %q", status)
	}
	if markPaid && status == models.StatusFailed {
		return nil, nil, validationf("payment cannot be collected on a failed delivery")
	}

	now := s.now()
	var update DeliveryUpdate
	var vendorID int64
	var settled bool

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		order, res, err := s.lockOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if !actor.Can(access.UpdateDeliveryStatus, res) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		vendorID = res.VendorID

		if err := s.moveStatus(ctx, q, actor, order, status, now); err != nil {
			return err
		}
		update.Order = order

		if !markPaid {
			return nil
		}
		payment, err := s.store.GetPaymentForUpdate(ctx, q, order.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if payment.Settleable() && payment.Status != models.PaymentPaid {
			if err := s.store.MarkPaymentPaid(ctx, q, payment.ID, now); err != nil {
				return err
			}
			payment.Status = models.PaymentPaid
			payment.PaidAt = &now
			payment.UpdatedAt = now
			settled = true
		}
		update.Payment = payment
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	effects := []notify.Effect{statusEffect(update.Order, now)}
	if settled {
		effects = append(effects, notify.Effect{
			UserID:  vendorID,
			Event:   notify.EventPaymentPaid,
			Message: fmt.Sprintf("Payment collected for order #%d", update.Order.ID),
			Payload: map[string]interface{}{
				"orderId": update.Order.ID,
				"amount":  update.Payment.Amount.StringFixed(2),
				"method":  update.Payment.Method,
			},
			At: now,
		})
	}
	return &update, effects, nil
}
