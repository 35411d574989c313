// Package orders places orders and moves them through fulfillment.
//
// Every mutating operation runs in one database transaction and returns the
// notifications it owes as []notify.Effect. Callers hand those to a
// notify.Dispatcher once the operation has returned successfully.
package orders

import (
	"time"

	"github.com/01moynul/marketd/internal/store"
)

// Service is the order workflow over a Store.
type Service struct {
	store     *store.Store
	addresses *AddressResolver
	ledger    *StockLedger
	now       func() time.Time
}

func NewService(st *store.Store) *Service {
	return &Service{
		store:     st,
		addresses: &AddressResolver{store: st},
		ledger:    &StockLedger{store: st},
		now:       func() time.Time { return time.Now().UTC() },
	}
}
