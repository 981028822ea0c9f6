package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

func testStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()
	s := NewStore(ttl)
	t.Cleanup(s.Close)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t, 30*time.Minute)

	cart := domain.Cart{
		SessionID: "s1",
		Lines:     []domain.Line{{ProductID: "p1", Quantity: 2, UnitCents: 500}},
	}
	if err := s.Put(ctx, cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].ProductID != "p1" {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t, 30*time.Minute)

	if err := s.Put(ctx, domain.Cart{
		SessionID: "s1",
		Lines:     []domain.Line{{ProductID: "p1", Quantity: 2}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Edits to the returned cart must not leak into the store before Put.
	got.SetQuantity("p1", 9)
	got.Remove("p1")

	stored, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Quantity("p1") != 2 {
		t.Fatalf("stored cart mutated through Get result: %+v", stored.Lines)
	}
}

func TestStoreMissingSession(t *testing.T) {
	s, _ := testStore(t, 30*time.Minute)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, app.ErrNoCart) {
		t.Fatalf("expected ErrNoCart, got %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := testStore(t, 30*time.Minute)

	if err := s.Put(ctx, domain.Cart{SessionID: "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	*now = now.Add(31 * time.Minute)
	if _, err := s.Get(ctx, "s1"); !errors.Is(err, app.ErrNoCart) {
		t.Fatalf("expected expired cart to be gone, got %v", err)
	}
}

func TestStorePutRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	s, now := testStore(t, 30*time.Minute)

	if err := s.Put(ctx, domain.Cart{SessionID: "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	*now = now.Add(20 * time.Minute)
	if err := s.Put(ctx, domain.Cart{SessionID: "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 45 minutes after the first put, 25 after the refresh.
	*now = now.Add(25 * time.Minute)
	if _, err := s.Get(ctx, "s1"); err != nil {
		t.Fatalf("expected refreshed cart to survive, got %v", err)
	}
}

func TestSweepReclaimsExpired(t *testing.T) {
	ctx := context.Background()
	s, now := testStore(t, 30*time.Minute)

	if err := s.Put(ctx, domain.Cart{SessionID: "s1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Put(ctx, domain.Cart{SessionID: "s2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	*now = now.Add(time.Hour)
	s.sweep()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.carts) != 0 {
		t.Fatalf("expected all entries reclaimed, got %d", len(s.carts))
	}
}
