package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/marketd/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "mysql")), mock
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.WithTx(ctx, func(q Querier) error {
			return s.SetOrderStatus(ctx, q, 1, models.StatusCancelled, time.Now())
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := s.WithTx(ctx, func(Querier) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("UPDATE products SET stock = stock - ?, updated_at = NOW() WHERE id = ? AND stock >= ?")

	t.Run("enough stock", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(query).WithArgs(3, int64(10), 3).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.DecrementStock(ctx, s.DB(), 10, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row changed", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(query).WithArgs(3, int64(10), 3).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.DecrementStock(ctx, s.DB(), 10, 3)
		assert.ErrorIs(t, err, ErrNotEnoughStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetMapsNoRows(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetProduct(context.Background(), s.DB(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMapsDuplicates(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO businesses")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'corner-shop'"})

	err := s.InsertBusiness(context.Background(), s.DB(), &models.Business{VendorID: 9, Name: "Corner Shop", Slug: "corner-shop"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAddressMatchesAllKeyFields(t *testing.T) {
	s, mock := newMockStore(t)
	key := models.AddressKey{Street: "12 Harbour Rd", City: "Leeds", State: "West Yorkshire", PostalCode: "LS1 4AP", Country: "UK"}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = ? AND street = ? AND city = ? AND state = ? AND postal_code = ? AND country = ?")).
		WithArgs(int64(7), key.Street, key.City, key.State, key.PostalCode, key.Country).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "street", "city", "state", "postal_code", "country", "building", "latitude", "longitude", "created_at"}).
			AddRow(30, 7, key.Street, key.City, key.State, key.PostalCode, key.Country, "Flat 2", 53.79, -1.54, time.Now()))

	a, err := s.FindAddress(context.Background(), s.DB(), 7, key)
	require.NoError(t, err)
	assert.Equal(t, int64(30), a.ID)
	require.NotNil(t, a.Building)
	assert.Equal(t, "Flat 2", *a.Building)
	assert.Equal(t, key, a.Key())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationRead(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?")

	s, mock := newMockStore(t)
	mock.ExpectExec(query).WithArgs(int64(4), int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(int64(4), int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.MarkNotificationRead(ctx, s.DB(), 4, 7))
	assert.ErrorIs(t, s.MarkNotificationRead(ctx, s.DB(), 4, 8), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
