package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/storefront/internal/dashboard/domain"
)

// Repo answers the aggregate queries a snapshot is built from. Revenue
// figures always exclude cancelled orders.
type Repo interface {
	TotalProducts(ctx context.Context) (int, error)
	TotalOrders(ctx context.Context) (int, error)
	PendingOrders(ctx context.Context) (int, error)
	Revenue(ctx context.Context, from, to time.Time) (int64, error)
	TotalRevenue(ctx context.Context) (int64, error)
	LowStockCount(ctx context.Context, threshold int32) (int, error)
	ExpiredCount(ctx context.Context, now time.Time) (int, error)
	RecentOrders(ctx context.Context, n int) ([]domain.RecentOrder, error)
	TopProducts(ctx context.Context, n int) ([]domain.TopProduct, error)
	LowStockProducts(ctx context.Context, threshold int32, now time.Time) ([]domain.LowStock, error)
	StatusSummary(ctx context.Context) (domain.StatusSummary, error)
	MonthlyRevenue(ctx context.Context, months int, now time.Time) ([]domain.MonthlyPoint, error)
}
