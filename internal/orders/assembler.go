package orders

import (
	"context"
	"fmt"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/notify"
	"github.com/01moynul/marketd/internal/store"
)

// PlaceOrderInput is a checkout request.
type PlaceOrderInput struct {
	Address AddressInput
	Items   []LineRequest
}

// Validate rejects malformed input before any query runs.
func (in PlaceOrderInput) Validate() error {
	if err := in.Address.Validate(); err != nil {
		return err
	}
	if len(in.Items) == 0 {
		return validationf("at least one item is required")
	}
	for i, item := range in.Items {
		if item.ProductID <= 0 {
			return validationf("item %d: product_id is required", i)
		}
		if item.Quantity < 1 {
			return validationf("item %d: quantity must be at least 1", i)
		}
	}
	return nil
}

// PlaceOrder resolves the address, validates stock for every line, then
// persists the order, its items and the stock decrements in one transaction.
// The order belongs to the business of its first item; carts spanning
// businesses are rejected.
func (s *Service) PlaceOrder(ctx context.Context, actor access.Actor, in PlaceOrderInput) (*models.OrderDetail, []notify.Effect, error) {
	if !actor.Can(access.PlaceOrder, access.Resource{OwnerID: actor.ID()}) {
		return nil, nil, ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	now := s.now()
	var detail *models.OrderDetail
	var vendorID int64

	err := s.store.WithTx(ctx, func(q store.Querier) error {
		// 1. --- Address ---
		addr, err := s.addresses.Resolve(ctx, q, actor.ID(), in.Address, now)
		if err != nil {
			return err
		}

		// 2. --- Validation pass (locks product rows) ---
		reservation, err := s.ledger.ValidateAndReserve(ctx, q, in.Items)
		if err != nil {
			return err
		}

		// 3. --- Business attribution ---
		businessID := reservation.Lines[0].Product.BusinessID
		for _, line := range reservation.Lines[1:] {
			if line.Product.BusinessID != businessID {
				return fmt.Errorf("%w: product %d belongs to business %d, expected %d",
					ErrMixedBusiness, line.Product.ID, line.Product.BusinessID, businessID)
			}
		}
		business, err := s.store.GetBusiness(ctx, q, businessID)
		if err != nil {
			return fmt.Errorf("failed to load business %d: %w", businessID, err)
		}
		vendorID = business.VendorID

		// 4. --- Order ---
		order := models.Order{
			UserID:     actor.ID(),
			AddressID:  addr.ID,
			BusinessID: businessID,
			Total:      reservation.Total,
			Status:     models.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.store.InsertOrder(ctx, q, &order); err != nil {
			return err
		}

		// 5. --- Items with price snapshot, then stock ---
		items := make([]models.OrderItemDetail, 0, len(reservation.Lines))
		for _, line := range reservation.Lines {
			item := line.item()
			item.OrderID = order.ID
			item.CreatedAt = now
			if err := s.store.InsertOrderItem(ctx, q, &item); err != nil {
				return err
			}
			if err := s.ledger.Decrement(ctx, q, line); err != nil {
				return err
			}
			items = append(items, models.OrderItemDetail{OrderItem: item, ProductName: line.Product.Name})
		}

		detail = &models.OrderDetail{
			Order:    order,
			Items:    items,
			Address:  addr,
			Business: business,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	effects := []notify.Effect{{
		UserID:  vendorID,
		Event:   notify.EventOrderPlaced,
		Message: fmt.Sprintf("New order #%d for %s", detail.ID, detail.Business.Name),
		Payload: map[string]interface{}{
			"orderId":    detail.ID,
			"businessId": detail.BusinessID,
			"total":      detail.Total.StringFixed(2),
		},
		At: now,
	}}
	return detail, effects, nil
}
