package app

import (
	"context"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/dashboard/domain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTTL               = 15 * time.Minute
	DefaultLowStockThreshold = 10

	recentOrdersCount = 10
	topProductsCount  = 8
	trendMonths       = 12
)

type Options struct {
	TTL               time.Duration
	LowStockThreshold int32

	// Clock overrides time.Now so tests can control TTL expiry.
	Clock func() time.Time
}

// Service computes dashboard snapshots and caches them for the TTL window.
// Writers never update the cache synchronously; consumers tolerate staleness
// up to the TTL or force a refresh.
type Service struct {
	repo      Repo
	ttl       time.Duration
	threshold int32
	clock     func() time.Time

	mu      sync.Mutex
	cached  *domain.Snapshot
	expires time.Time
}

func NewService(repo Repo, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = DefaultLowStockThreshold
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Service{
		repo:      repo,
		ttl:       opts.TTL,
		threshold: opts.LowStockThreshold,
		clock:     opts.Clock,
	}
}

// Snapshot returns the cached snapshot while it is fresh, recomputing all
// aggregates on a miss.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	if s.cached != nil && s.clock().Before(s.expires) {
		snap := *s.cached
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	snap, err := s.compute(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	s.cached = &snap
	s.expires = s.clock().Add(s.ttl)
	s.mu.Unlock()

	return snap, nil
}

// Invalidate forces the next read to recompute.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Refresh recomputes immediately and returns the fresh snapshot.
func (s *Service) Refresh(ctx context.Context) (domain.Snapshot, error) {
	s.Invalidate()
	return s.Snapshot(ctx)
}

func (s *Service) compute(ctx context.Context) (domain.Snapshot, error) {
	now := s.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var snap domain.Snapshot

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.TotalProducts, err = s.repo.TotalProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.TotalOrders, err = s.repo.TotalOrders(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.PendingOrders, err = s.repo.PendingOrders(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.MonthlyRevenueCents, err = s.repo.Revenue(ctx, monthStart, monthEnd)
		return err
	})
	g.Go(func() (err error) {
		snap.TotalRevenueCents, err = s.repo.TotalRevenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.LowStockCount, err = s.repo.LowStockCount(ctx, s.threshold)
		return err
	})
	g.Go(func() (err error) {
		snap.ExpiredCount, err = s.repo.ExpiredCount(ctx, now)
		return err
	})
	g.Go(func() (err error) {
		snap.RecentOrders, err = s.repo.RecentOrders(ctx, recentOrdersCount)
		return err
	})
	g.Go(func() (err error) {
		snap.TopProducts, err = s.repo.TopProducts(ctx, topProductsCount)
		return err
	})
	g.Go(func() (err error) {
		snap.LowStockProducts, err = s.repo.LowStockProducts(ctx, s.threshold, now)
		return err
	})
	g.Go(func() (err error) {
		snap.StatusSummary, err = s.repo.StatusSummary(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.MonthlyTrend, err = s.repo.MonthlyRevenue(ctx, trendMonths, now)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}

	snap.GeneratedAt = now
	return snap, nil
}
