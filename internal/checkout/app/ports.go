package app

import (
	"context"
	"time"

	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

// Line is the cart snapshot the checkout works from.
type Line struct {
	ProductID   string
	ProductName string
	UnitCents   int64
	Quantity    int32
	Weight      int64
	WeightUnit  string
	Flavor      string
}

type CartReader interface {
	GetCart(ctx context.Context, sessionID string) ([]Line, error)
	// Clear is called only after a successful commit.
	Clear(ctx context.Context, sessionID string) error
}

// Product is the live catalog view the validator re-reads; cart snapshots are
// never trusted for stock or availability.
type Product struct {
	ID          string
	Name        string
	Stock       int32
	IsAvailable bool
	ExpiryDate  *time.Time
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// OrderCreator persists the order, its details and every conditional stock
// decrement inside one atomic unit of work. A failed decrement surfaces as a
// *domain.StockError and leaves nothing mutated.
type OrderCreator interface {
	CreateOrder(ctx context.Context, o orderdomain.Order) (orderdomain.Order, error)
}

type Notifier interface {
	OrderConfirmed(ctx context.Context, o orderdomain.Order) error
}
