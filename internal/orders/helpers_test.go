package orders

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/marketd/internal/store"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

var (
	userCols     = []string{"id", "role", "email", "password_hash", "full_name", "created_at", "updated_at"}
	addressCols  = []string{"id", "user_id", "street", "city", "state", "postal_code", "country", "building", "latitude", "longitude", "created_at"}
	productCols  = []string{"id", "business_id", "name", "price", "stock", "created_at", "updated_at"}
	businessCols = []string{"id", "vendor_id", "name", "slug", "created_at"}
	paymentCols  = []string{"id", "order_id", "method", "amount", "status", "reference", "paid_at", "created_at", "updated_at"}
	lockedCols   = []string{"id", "user_id", "address_id", "business_id", "rider_id", "total", "status", "created_at", "updated_at", "vendor_id"}
	listCols     = []string{
		"id", "user_id", "address_id", "business_id", "rider_id", "total", "status", "created_at", "updated_at",
		"vendor_id", "business_name", "business_slug", "business_created_at",
		"addr_street", "addr_city", "addr_state", "addr_postal_code", "addr_country", "addr_building",
		"addr_latitude", "addr_longitude", "addr_created_at", "user_name", "rider_name",
	}
	itemCols = []string{"id", "order_id", "product_id", "quantity", "price", "created_at", "product_name"}
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(store.New(sqlx.NewDb(db, "mysql")))
	svc.now = func() time.Time { return testNow }
	return svc, mock
}

func homeAddress() AddressInput {
	return AddressInput{
		Street:     "12 Harbour Rd",
		City:       "Leeds",
		State:      "West Yorkshire",
		PostalCode: "LS1 4AP",
		Country:    "UK",
	}
}

func addressRow(id, userID int64) *sqlmock.Rows {
	a := homeAddress()
	return sqlmock.NewRows(addressCols).
		AddRow(id, userID, a.Street, a.City, a.State, a.PostalCode, a.Country, nil, nil, nil, testNow)
}

func productRow(id, businessID int64, name, price string, stock int) *sqlmock.Rows {
	return sqlmock.NewRows(productCols).AddRow(id, businessID, name, price, stock, testNow, testNow)
}

func businessRow(id, vendorID int64, name, slug string) *sqlmock.Rows {
	return sqlmock.NewRows(businessCols).AddRow(id, vendorID, name, slug, testNow)
}

// lockedOrderRow is an order owned by customer 7 in business 3 of vendor 9.
func lockedOrderRow(id int64, status string, riderID interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(lockedCols).
		AddRow(id, int64(7), int64(30), int64(3), riderID, "20.00", status, testNow, testNow, int64(9))
}
