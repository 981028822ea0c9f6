package app

import (
	"context"
	"errors"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// ErrNoCart is returned by a Store when the session has no cart yet.
var ErrNoCart = errors.New("no cart for session")

// Store holds one cart per session, TTL-bound to the session's idle timeout.
type Store interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Put(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Product is the catalog view the cart needs to snapshot a line.
type Product struct {
	ID          string
	Name        string
	UnitCents   int64
	Stock       int32
	Weight      int64
	WeightUnit  string
	Flavor      string
	IsAvailable bool
	ExpiryDate  *time.Time
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}
