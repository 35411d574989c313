package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/01moynul/marketd/internal/models"
)

const orderColumns = "o.id, o.user_id, o.address_id, o.business_id, o.rider_id, o.total, o.status, o.created_at, o.updated_at"

// lockedOrder is an order row plus the vendor owning its business.
type lockedOrder struct {
	models.Order
	VendorID int64 `db:"vendor_id"`
}

// GetOrderForUpdate locks the order row and returns it with the id of the
// vendor who owns its business.
func (s *Store) GetOrderForUpdate(ctx context.Context, q Querier, id int64) (*models.Order, int64, error) {
	query := `
		SELECT ` + orderColumns + `, b.vendor_id
		FROM orders o
		JOIN businesses b ON b.id = o.business_id
		WHERE o.id = ?
		FOR UPDATE`

	var row lockedOrder
	if err := get(ctx, q, &row, "order", query, id); err != nil {
		return nil, 0, err
	}
	return &row.Order, row.VendorID, nil
}

// InsertOrder persists o and sets its ID.
func (s *Store) InsertOrder(ctx context.Context, q Querier, o *models.Order) error {
	query := `
		INSERT INTO orders (user_id, address_id, business_id, rider_id, total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insert(ctx, q, "order", query,
		o.UserID, o.AddressID, o.BusinessID, o.RiderID, o.Total, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	o.ID = id
	return nil
}

// InsertOrderItem snapshots one order line.
func (s *Store) InsertOrderItem(ctx context.Context, q Querier, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price, created_at)
		VALUES (?, ?, ?, ?, ?)`

	id, err := insert(ctx, q, "order item", query,
		item.OrderID, item.ProductID, item.Quantity, item.Price, item.CreatedAt)
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

// SetOrderStatus overwrites the order's status.
func (s *Store) SetOrderStatus(ctx context.Context, q Querier, id int64, status models.OrderStatus, at time.Time) error {
	_, err := q.ExecContext(ctx, "UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", status, at, id)
	return errors.Wrap(err, "update order status")
}

// SetOrderRider records the rider together with the resulting status.
func (s *Store) SetOrderRider(ctx context.Context, q Querier, id, riderID int64, status models.OrderStatus, at time.Time) error {
	_, err := q.ExecContext(ctx, "UPDATE orders SET rider_id = ?, status = ?, updated_at = ? WHERE id = ?", riderID, status, at, id)
	return errors.Wrap(err, "assign rider")
}

// InsertStatusChange appends to the order's status history.
func (s *Store) InsertStatusChange(ctx context.Context, q Querier, c *models.StatusChange) error {
	query := `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?)`

	id, err := insert(ctx, q, "status change", query, c.OrderID, c.FromStatus, c.ToStatus, c.ActorID, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// OrderFilter narrows ListOrders. Zero fields are ignored.
type OrderFilter struct {
	OrderID    int64
	UserID     int64
	VendorID   int64
	BusinessID int64
	RiderID    int64
}

type orderListRow struct {
	models.Order
	VendorID          int64          `db:"vendor_id"`
	BusinessName      string         `db:"business_name"`
	BusinessSlug      string         `db:"business_slug"`
	BusinessCreatedAt time.Time      `db:"business_created_at"`
	AddrStreet        string         `db:"addr_street"`
	AddrCity          string         `db:"addr_city"`
	AddrState         string         `db:"addr_state"`
	AddrPostalCode    string         `db:"addr_postal_code"`
	AddrCountry       string         `db:"addr_country"`
	AddrBuilding      *string        `db:"addr_building"`
	AddrLatitude      *float64       `db:"addr_latitude"`
	AddrLongitude     *float64       `db:"addr_longitude"`
	AddrCreatedAt     time.Time      `db:"addr_created_at"`
	UserName          string         `db:"user_name"`
	RiderName         sql.NullString `db:"rider_name"`
}

func (r *orderListRow) detail() models.OrderDetail {
	d := models.OrderDetail{
		Order: r.Order,
		Items: []models.OrderItemDetail{},
		Address: &models.Address{
			ID:         r.AddressID,
			UserID:     r.UserID,
			Street:     r.AddrStreet,
			City:       r.AddrCity,
			State:      r.AddrState,
			PostalCode: r.AddrPostalCode,
			Country:    r.AddrCountry,
			Building:   r.AddrBuilding,
			Latitude:   r.AddrLatitude,
			Longitude:  r.AddrLongitude,
			CreatedAt:  r.AddrCreatedAt,
		},
		Business: &models.Business{
			ID:        r.BusinessID,
			VendorID:  r.VendorID,
			Name:      r.BusinessName,
			Slug:      r.BusinessSlug,
			CreatedAt: r.BusinessCreatedAt,
		},
		User: &models.UserSummary{ID: r.UserID, FullName: r.UserName},
	}
	if r.RiderID != nil {
		d.Rider = &models.UserSummary{ID: *r.RiderID, FullName: r.RiderName.String}
	}
	return d
}

// ListOrders returns matching orders, newest first, joined to their items,
// address, business, purchaser and rider.
func (s *Store) ListOrders(ctx context.Context, q Querier, f OrderFilter) ([]models.OrderDetail, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(`
		SELECT ` + orderColumns + `,
			b.vendor_id, b.name AS business_name, b.slug AS business_slug, b.created_at AS business_created_at,
			a.street AS addr_street, a.city AS addr_city, a.state AS addr_state,
			a.postal_code AS addr_postal_code, a.country AS addr_country, a.building AS addr_building,
			a.latitude AS addr_latitude, a.longitude AS addr_longitude, a.created_at AS addr_created_at,
			u.full_name AS user_name, r.full_name AS rider_name
		FROM orders o
		JOIN businesses b ON b.id = o.business_id
		JOIN addresses a ON a.id = o.address_id
		JOIN users u ON u.id = o.user_id
		LEFT JOIN users r ON r.id = o.rider_id
		WHERE 1 = 1`)

	if f.OrderID != 0 {
		queryBuilder.WriteString(" AND o.id = ?")
		args = append(args, f.OrderID)
	}
	if f.UserID != 0 {
		queryBuilder.WriteString(" AND o.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.VendorID != 0 {
		queryBuilder.WriteString(" AND b.vendor_id = ?")
		args = append(args, f.VendorID)
	}
	if f.BusinessID != 0 {
		queryBuilder.WriteString(" AND o.business_id = ?")
		args = append(args, f.BusinessID)
	}
	if f.RiderID != 0 {
		queryBuilder.WriteString(" AND o.rider_id = ?")
		args = append(args, f.RiderID)
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC, o.id DESC")

	var rows []orderListRow
	if err := q.SelectContext(ctx, &rows, queryBuilder.String(), args...); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders := make([]models.OrderDetail, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].detail())
		ids = append(ids, rows[i].ID)
	}

	items, err := s.listItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if lines, ok := items[orders[i].ID]; ok {
			orders[i].Items = lines
		}
	}
	return orders, nil
}

func (s *Store) listItems(ctx context.Context, q Querier, orderIDs []int64) (map[int64][]models.OrderItemDetail, error) {
	query, args, err := sqlx.In(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at, p.name AS product_name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.id`, orderIDs)
	if err != nil {
		return nil, errors.Wrap(err, "build item query")
	}

	var lines []models.OrderItemDetail
	if err := q.SelectContext(ctx, &lines, q.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "list order items")
	}

	byOrder := make(map[int64][]models.OrderItemDetail, len(orderIDs))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line)
	}
	return byOrder, nil
}
