package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/domain"
)

// Filter narrows admin order listings. Zero values mean "no constraint".
type Filter struct {
	Status *domain.Status
	From   *time.Time
	To     *time.Time
	Search string
}

type Repo interface {
	GetByID(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, f Filter) ([]domain.Order, error)
	// UpdateStatus persists the new status and returns the updated order
	// together with the status it replaced.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, domain.Status, error)
}

// Notifier receives order lifecycle events. Failures never surface to the
// caller; implementations are expected to retry out of band.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, o domain.Order, old domain.Status) error
}
