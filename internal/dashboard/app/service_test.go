package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/internal/dashboard/domain"
)

// fakeDashRepo counts orders from an atomic so tests can mutate the
// underlying data between reads.
type fakeDashRepo struct {
	orders   atomic.Int64
	computes atomic.Int64
	err      error
}

func (f *fakeDashRepo) TotalProducts(ctx context.Context) (int, error) { return 3, f.err }
func (f *fakeDashRepo) TotalOrders(ctx context.Context) (int, error) {
	f.computes.Add(1)
	return int(f.orders.Load()), f.err
}
func (f *fakeDashRepo) PendingOrders(ctx context.Context) (int, error) { return 1, f.err }
func (f *fakeDashRepo) Revenue(ctx context.Context, from, to time.Time) (int64, error) {
	return 5000, f.err
}
func (f *fakeDashRepo) TotalRevenue(ctx context.Context) (int64, error) { return 90000, f.err }
func (f *fakeDashRepo) LowStockCount(ctx context.Context, threshold int32) (int, error) {
	return 2, f.err
}
func (f *fakeDashRepo) ExpiredCount(ctx context.Context, now time.Time) (int, error) {
	return 0, f.err
}
func (f *fakeDashRepo) RecentOrders(ctx context.Context, n int) ([]domain.RecentOrder, error) {
	return nil, f.err
}
func (f *fakeDashRepo) TopProducts(ctx context.Context, n int) ([]domain.TopProduct, error) {
	return nil, f.err
}
func (f *fakeDashRepo) LowStockProducts(ctx context.Context, threshold int32, now time.Time) ([]domain.LowStock, error) {
	return nil, f.err
}
func (f *fakeDashRepo) StatusSummary(ctx context.Context) (domain.StatusSummary, error) {
	return domain.StatusSummary{}, f.err
}
func (f *fakeDashRepo) MonthlyRevenue(ctx context.Context, months int, now time.Time) ([]domain.MonthlyPoint, error) {
	return nil, f.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newDashService(repo *fakeDashRepo, clock *fakeClock) *Service {
	return NewService(repo, Options{TTL: 15 * time.Minute, Clock: clock.Now})
}

func TestSnapshotCachedWithinTTL(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashRepo{}
	repo.orders.Store(10)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newDashService(repo, clock)

	first, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalOrders != 10 {
		t.Fatalf("expected 10 orders, got %d", first.TotalOrders)
	}

	// Data changes, but the cache is still fresh.
	repo.orders.Store(25)
	clock.Advance(14 * time.Minute)

	second, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.TotalOrders != 10 {
		t.Fatalf("expected stale cached value 10, got %d", second.TotalOrders)
	}
	if second.GeneratedAt != first.GeneratedAt {
		t.Fatalf("cached snapshot must keep its generation time")
	}
	if repo.computes.Load() != 1 {
		t.Fatalf("expected a single compute, got %d", repo.computes.Load())
	}
}

func TestSnapshotRecomputedAfterTTL(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashRepo{}
	repo.orders.Store(10)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newDashService(repo, clock)

	if _, err := svc.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.orders.Store(25)
	clock.Advance(16 * time.Minute)

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalOrders != 25 {
		t.Fatalf("expected recomputed value 25, got %d", snap.TotalOrders)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashRepo{}
	repo.orders.Store(10)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newDashService(repo, clock)

	if _, err := svc.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.orders.Store(25)
	svc.Invalidate()

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalOrders != 25 {
		t.Fatalf("expected fresh value 25 after invalidate, got %d", snap.TotalOrders)
	}
}

func TestRefreshReturnsFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashRepo{}
	repo.orders.Store(10)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newDashService(repo, clock)

	if _, err := svc.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.orders.Store(25)
	snap, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalOrders != 25 {
		t.Fatalf("expected fresh value 25 after refresh, got %d", snap.TotalOrders)
	}
}

func TestSnapshotRepoFailure(t *testing.T) {
	repo := &fakeDashRepo{err: errors.New("connection refused")}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newDashService(repo, clock)

	if _, err := svc.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
