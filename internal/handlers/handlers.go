package handlers

import (
	"github.com/01moynul/marketd/internal/auth"
	"github.com/01moynul/marketd/internal/notify"
	"github.com/01moynul/marketd/internal/orders"
	"github.com/01moynul/marketd/internal/store"
)

// Notifier receives the effects of a successful operation.
type Notifier interface {
	Dispatch(effects ...notify.Effect)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store    *store.Store    // Primary Read/Write pool
	Orders   *orders.Service // Order placement and fulfillment
	Notifier Notifier        // Post-commit notifications
	Tokens   *auth.TokenManager
}
