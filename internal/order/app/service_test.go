package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dwikikusuma/storefront/internal/order/domain"
)

type fakeRepo struct {
	orders map[string]domain.Order
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context, filter Filter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, domain.Status, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, "", ErrNotFound
	}
	old := o.Status
	o.Status = status
	f.orders[id] = o
	return o, old, nil
}

type fakeNotifier struct {
	changes int
	err     error
}

func (f *fakeNotifier) OrderStatusChanged(ctx context.Context, o domain.Order, old domain.Status) error {
	if f.err != nil {
		return f.err
	}
	f.changes++
	return nil
}

func newOrderService(orders map[string]domain.Order) (*Service, *fakeRepo, *fakeNotifier) {
	repo := &fakeRepo{orders: orders}
	notifier := &fakeNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, notifier, log), repo, notifier
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition -> persisted and notified", func(t *testing.T) {
		svc, repo, notifier := newOrderService(map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.StatusPending},
		})
		got, err := svc.UpdateStatus(ctx, "o1", "Shipped")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != domain.StatusShipped || repo.orders["o1"].Status != domain.StatusShipped {
			t.Fatalf("status not persisted: %+v", got)
		}
		if notifier.changes != 1 {
			t.Fatalf("expected one notification, got %d", notifier.changes)
		}
	})

	t.Run("same status -> no notification", func(t *testing.T) {
		svc, _, notifier := newOrderService(map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.StatusShipped},
		})
		if _, err := svc.UpdateStatus(ctx, "o1", "Shipped"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if notifier.changes != 0 {
			t.Fatalf("expected no notification, got %d", notifier.changes)
		}
	})

	t.Run("legacy completed -> delivered", func(t *testing.T) {
		svc, repo, _ := newOrderService(map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.StatusShipped},
		})
		if _, err := svc.UpdateStatus(ctx, "o1", "Completed"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.orders["o1"].Status != domain.StatusDelivered {
			t.Fatalf("expected Delivered, got %s", repo.orders["o1"].Status)
		}
	})

	t.Run("unknown status -> rejected", func(t *testing.T) {
		svc, _, _ := newOrderService(map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.StatusPending},
		})
		if _, err := svc.UpdateStatus(ctx, "o1", "Archived"); !errors.Is(err, domain.ErrUnknownStatus) {
			t.Fatalf("expected ErrUnknownStatus, got %v", err)
		}
	})

	t.Run("notifier failure -> update still succeeds", func(t *testing.T) {
		svc, repo, notifier := newOrderService(map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.StatusPending},
		})
		notifier.err = errors.New("broker down")
		if _, err := svc.UpdateStatus(ctx, "o1", "Cancelled"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.orders["o1"].Status != domain.StatusCancelled {
			t.Fatalf("expected Cancelled, got %s", repo.orders["o1"].Status)
		}
	})
}

func TestCancelKeepsOrder(t *testing.T) {
	svc, repo, _ := newOrderService(map[string]domain.Order{
		"o1": {ID: "o1", Status: domain.StatusPending, TotalCents: 900},
	})
	got, err := svc.Cancel(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("expected Cancelled, got %s", got.Status)
	}
	if _, ok := repo.orders["o1"]; !ok {
		t.Fatalf("cancelled order must not be deleted")
	}
}

func TestGetOrderValidation(t *testing.T) {
	svc, _, _ := newOrderService(map[string]domain.Order{})
	if _, err := svc.GetOrder(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.GetUserOrders(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
