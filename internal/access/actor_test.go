package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/marketd/internal/models"
)

func TestFromUser(t *testing.T) {
	cases := map[models.Role]Actor{
		models.RoleAdmin:    Admin{UserID: 7},
		models.RoleCustomer: Customer{UserID: 7},
		models.RoleVendor:   Vendor{UserID: 7},
		models.RoleRider:    Rider{UserID: 7},
	}
	for role, want := range cases {
		got, err := FromUser(&models.User{ID: 7, Role: role})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, role, got.Role())
		assert.Equal(t, int64(7), got.ID())
	}

	_, err := FromUser(&models.User{ID: 7, Role: "dropshipper"})
	assert.Error(t, err)
}

func TestVendorOwnership(t *testing.T) {
	owner := Vendor{UserID: 10}
	stranger := Vendor{UserID: 11}
	res := Resource{OwnerID: 1, VendorID: 10}

	for _, op := range []Operation{AssignRider, UpdateStatus, ListBusinessOrders, ViewOrder, ManageCatalog} {
		assert.True(t, owner.Can(op, res), op.String())
		assert.False(t, stranger.Can(op, res), op.String())
	}
	assert.False(t, owner.Can(UpdateDeliveryStatus, res))
	assert.False(t, owner.Can(PlaceOrder, res))
}

func TestRiderOnlyTouchesAssignedOrders(t *testing.T) {
	rider := Rider{UserID: 5}

	assert.True(t, rider.Can(UpdateDeliveryStatus, Resource{RiderID: 5}))
	assert.False(t, rider.Can(UpdateDeliveryStatus, Resource{RiderID: 6}))
	assert.False(t, rider.Can(UpdateDeliveryStatus, Resource{}))
	assert.False(t, rider.Can(UpdateStatus, Resource{RiderID: 5}))
	assert.False(t, rider.Can(AssignRider, Resource{RiderID: 5}))
}

func TestAdminAndCustomer(t *testing.T) {
	admin := Admin{UserID: 1}
	res := Resource{OwnerID: 2, VendorID: 3, RiderID: 4}

	assert.True(t, admin.Can(AssignRider, res))
	assert.True(t, admin.Can(UpdateStatus, res))
	assert.False(t, admin.Can(UpdateDeliveryStatus, res))
	assert.False(t, admin.Can(PlaceOrder, res))

	customer := Customer{UserID: 2}
	assert.True(t, customer.Can(PlaceOrder, Resource{}))
	assert.True(t, customer.Can(RecordPayment, res))
	assert.False(t, Customer{UserID: 9}.Can(RecordPayment, res))
	assert.False(t, customer.Can(UpdateStatus, res))
	assert.False(t, customer.Can(AssignRider, res))
}

func TestOrderResource(t *testing.T) {
	rider := int64(4)
	res := OrderResource(&models.Order{UserID: 2, RiderID: &rider}, 3)
	assert.Equal(t, Resource{OwnerID: 2, VendorID: 3, RiderID: 4}, res)

	res = OrderResource(&models.Order{UserID: 2}, 3)
	assert.Zero(t, res.RiderID)
}
