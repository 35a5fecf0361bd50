package go_duka

import (
	"github.com/dukahq/go-duka/cart"
	"github.com/dukahq/go-duka/flow"
	"github.com/dukahq/go-duka/log"
)

// Duka is the main SDK interface.
type Duka interface {
	Auth() *AuthService
	Catalog() *CatalogService
	Cart() *CartService
	Orders() *OrdersService
	Payments() *PaymentsService

	Session() *Session
	CheckoutFlow(store *cart.Store, opts flow.Options) (*flow.Flow, error)

	SetLogLevel(level log.Level)
}

var _ Duka = (*Client)(nil)
