// Package access decides what each kind of user may do to an order.
//
// An Actor is one of Admin, Customer, Vendor or Rider. Each variant answers
// Can(op, res) for itself, so the rules live next to the role they describe
// and can be tested without any HTTP plumbing.
package access

import (
	"fmt"

	"github.com/01moynul/marketd/internal/models"
)

// Operation is something an actor may attempt.
type Operation int

const (
	PlaceOrder Operation = iota
	ListOwnOrders
	ListAllOrders
	ListBusinessOrders
	ListAssignedOrders
	ViewOrder
	AssignRider
	UpdateStatus
	UpdateDeliveryStatus
	RecordPayment
	CreateBusiness
	ManageCatalog
)

var operationNames = map[Operation]string{
	PlaceOrder:           "place_order",
	ListOwnOrders:        "list_own_orders",
	ListAllOrders:        "list_all_orders",
	ListBusinessOrders:   "list_business_orders",
	ListAssignedOrders:   "list_assigned_orders",
	ViewOrder:            "view_order",
	AssignRider:          "assign_rider",
	UpdateStatus:         "update_status",
	UpdateDeliveryStatus: "update_delivery_status",
	RecordPayment:        "record_payment",
	CreateBusiness:       "create_business",
	ManageCatalog:        "manage_catalog",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Resource carries the ownership facts of the thing being acted on.
// Zero means "no such party".
type Resource struct {
	OwnerID  int64 // purchasing customer
	VendorID int64 // vendor owning the order's business
	RiderID  int64 // assigned rider
}

// OrderResource builds the Resource for an order whose business is owned by vendorID.
func OrderResource(o *models.Order, vendorID int64) Resource {
	res := Resource{OwnerID: o.UserID, VendorID: vendorID}
	if o.RiderID != nil {
		res.RiderID = *o.RiderID
	}
	return res
}

// Actor is the authenticated caller.
type Actor interface {
	ID() int64
	Role() models.Role
	Can(op Operation, res Resource) bool
	sealed()
}

// FromUser returns the Actor variant matching u.Role.
func FromUser(u *models.User) (Actor, error) {
	switch u.Role {
	case models.RoleAdmin:
		return Admin{UserID: u.ID}, nil
	case models.RoleCustomer:
		return Customer{UserID: u.ID}, nil
	case models.RoleVendor:
		return Vendor{UserID: u.ID}, nil
	case models.RoleRider:
		return Rider{UserID: u.ID}, nil
	}
	return nil, fmt.Errorf("unknown role %q for user %d", u.Role, u.ID)
}

// Admin may inspect and steer every order but does not buy or deliver.
type Admin struct{ UserID int64 }

func (a Admin) ID() int64         { return a.UserID }
func (a Admin) Role() models.Role { return models.RoleAdmin }
func (Admin) sealed()             {}

func (a Admin) Can(op Operation, _ Resource) bool {
	switch op {
	case ListAllOrders, ListBusinessOrders, ViewOrder, AssignRider, UpdateStatus:
		return true
	}
	return false
}

// Customer buys and pays for their own orders.
type Customer struct{ UserID int64 }

func (c Customer) ID() int64         { return c.UserID }
func (c Customer) Role() models.Role { return models.RoleCustomer }
func (Customer) sealed()             {}

func (c Customer) Can(op Operation, res Resource) bool {
	switch op {
	case PlaceOrder, ListOwnOrders:
		return true
	case ViewOrder, RecordPayment:
		return res.OwnerID == c.UserID
	}
	return false
}

// Vendor manages orders placed against businesses they own.
type Vendor struct{ UserID int64 }

func (v Vendor) ID() int64         { return v.UserID }
func (v Vendor) Role() models.Role { return models.RoleVendor }
func (Vendor) sealed()             {}

func (v Vendor) Can(op Operation, res Resource) bool {
	switch op {
	case ListAllOrders, CreateBusiness:
		// listing is scoped to the vendor's own businesses by the caller
		return true
	case ListBusinessOrders, ViewOrder, AssignRider, UpdateStatus, ManageCatalog:
		return res.VendorID == v.UserID
	}
	return false
}

// Rider only touches orders assigned to them.
type Rider struct{ UserID int64 }

func (r Rider) ID() int64         { return r.UserID }
func (r Rider) Role() models.Role { return models.RoleRider }
func (Rider) sealed()             {}

func (r Rider) Can(op Operation, res Resource) bool {
	switch op {
	case ListAssignedOrders:
		return true
	case ViewOrder, UpdateDeliveryStatus:
		return res.RiderID == r.UserID
	}
	return false
}
