package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// LineRequest is one requested product and quantity.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

// ReservedLine is a validated line with the product as it was read.
type ReservedLine struct {
	Product  *models.Product
	Quantity int
}

// Price is the unit price snapshot for this line.
func (l ReservedLine) Price() decimal.Decimal {
	return l.Product.Price
}

// item is the order line this reservation becomes, without order id or timestamp.
func (l ReservedLine) item() models.OrderItem {
	return models.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity, Price: l.Price()}
}

// Reservation is the outcome of a successful validation pass.
type Reservation struct {
	Lines []ReservedLine
	Total decimal.Decimal
}

// StockLedger owns the stock invariant during order placement: every
// request is checked before anything is decremented, and a decrement never
// takes stock below zero.
type StockLedger struct {
	store *store.Store
}

// ValidateAndReserve walks the items in the order given, loading and
// locking each product the first time it appears and checking the line
// against what earlier lines left. It stops at the first failing line.
// Nothing is written.
func (l *StockLedger) ValidateAndReserve(ctx context.Context, q store.Querier, items []LineRequest) (*Reservation, error) {
	loaded := make(map[int64]*models.Product, len(items))
	lines := make([]ReservedLine, 0, len(items))
	running := newTally()

	for _, item := range items {
		p, ok := loaded[item.ProductID]
		if !ok {
			var err error
			p, err = l.store.GetProductForUpdate(ctx, q, item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, item.ProductID)
			}
			if err != nil {
				return nil, err
			}
			loaded[item.ProductID] = p
		}

		line := ReservedLine{Product: p, Quantity: item.Quantity}
		if err := running.add(line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return &Reservation{Lines: lines, Total: running.total}, nil
}

// tally accumulates the order total and the quantity drawn per product.
type tally struct {
	total decimal.Decimal
	used  map[int64]int
}

func newTally() *tally {
	return &tally{total: decimal.Zero, used: make(map[int64]int)}
}

// add fails when the line's product cannot cover it after earlier lines.
func (t *tally) add(line ReservedLine) error {
	p := line.Product
	available := p.Stock - t.used[p.ID]
	if line.Quantity > available {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   line.Quantity,
			Available:   available,
		}
	}
	t.used[p.ID] += line.Quantity
	t.total = t.total.Add(line.item().Subtotal())
	return nil
}

// checkLines totals the lines, failing on the first one whose product cannot
// cover it. Repeated products draw on the same stock.
func checkLines(lines []ReservedLine) (decimal.Decimal, error) {
	t := newTally()
	for _, line := range lines {
		if err := t.add(line); err != nil {
			return decimal.Zero, err
		}
	}
	return t.total, nil
}

// Decrement takes one reserved line out of stock. The update is conditional
// on stock >= quantity, so a concurrent placement that slipped past the
// validation pass fails here instead of driving stock negative.
func (l *StockLedger) Decrement(ctx context.Context, q store.Querier, line ReservedLine) error {
	err := l.store.DecrementStock(ctx, q, line.Product.ID, line.Quantity)
	if errors.Is(err, store.ErrNotEnoughStock) {
		return &InsufficientStockError{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Requested:   line.Quantity,
			Available:   line.Product.Stock,
		}
	}
	return err
}
