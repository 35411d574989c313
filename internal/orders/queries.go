package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// view picks which related parties a listing exposes. Items and address
// are always included.
type view struct {
	business bool
	user     bool
	rider    bool
}

func (v view) apply(orders []models.OrderDetail) []models.OrderDetail {
	for i := range orders {
		if !v.business {
			orders[i].Business = nil
		}
		if !v.user {
			orders[i].User = nil
		}
		if !v.rider {
			orders[i].Rider = nil
		}
	}
	return orders
}

// ListMyOrders returns the calling customer's orders.
func (s *Service) ListMyOrders(ctx context.Context, actor access.Actor) ([]models.OrderDetail, error) {
	if !actor.Can(access.ListOwnOrders, access.Resource{OwnerID: actor.ID()}) {
		return nil, ErrUnauthorized
	}
	list, err := s.store.ListOrders(ctx, s.store.DB(), store.OrderFilter{UserID: actor.ID()})
	if err != nil {
		return nil, err
	}
	return view{business: true}.apply(list), nil
}

// ListOrders returns every order for an admin, or the orders of a vendor's
// own businesses.
func (s *Service) ListOrders(ctx context.Context, actor access.Actor) ([]models.OrderDetail, error) {
	if !actor.Can(access.ListAllOrders, access.Resource{}) {
		return nil, ErrUnauthorized
	}
	filter := store.OrderFilter{}
	if actor.Role() == models.RoleVendor {
		filter.VendorID = actor.ID()
	}
	list, err := s.store.ListOrders(ctx, s.store.DB(), filter)
	if err != nil {
		return nil, err
	}
	return view{user: true}.apply(list), nil
}

// ListBusinessOrders returns one business's orders to its vendor or an admin.
func (s *Service) ListBusinessOrders(ctx context.Context, actor access.Actor, businessID int64) ([]models.OrderDetail, error) {
	business, err := s.store.GetBusiness(ctx, s.store.DB(), businessID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}
	if err != nil {
		return nil, err
	}
	if !actor.Can(access.ListBusinessOrders, access.Resource{VendorID: business.VendorID}) {
		return nil, ErrUnauthorized
	}
	list, err := s.store.ListOrders(ctx, s.store.DB(), store.OrderFilter{BusinessID: businessID})
	if err != nil {
		return nil, err
	}
	return view{user: true, rider: true}.apply(list), nil
}

// ListRiderOrders returns the orders assigned to the calling rider.
func (s *Service) ListRiderOrders(ctx context.Context, actor access.Actor) ([]models.OrderDetail, error) {
	if !actor.Can(access.ListAssignedOrders, access.Resource{RiderID: actor.ID()}) {
		return nil, ErrUnauthorized
	}
	list, err := s.store.ListOrders(ctx, s.store.DB(), store.OrderFilter{RiderID: actor.ID()})
	if err != nil {
		return nil, err
	}
	return view{business: true, user: true}.apply(list), nil
}

// GetOrder returns one order with everything attached. Callers who may not
// see it get ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, actor access.Actor, orderID int64) (*models.OrderDetail, error) {
	list, err := s.store.ListOrders(ctx, s.store.DB(), store.OrderFilter{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	detail := list[0]
	if !actor.Can(access.ViewOrder, access.OrderResource(&detail.Order, detail.Business.VendorID)) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	payment, err := s.store.GetPayment(ctx, s.store.DB(), orderID)
	switch {
	case err == nil:
		detail.Payment = payment
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return &detail, nil
}
