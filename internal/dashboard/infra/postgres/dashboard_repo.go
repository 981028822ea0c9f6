package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/dashboard/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DashboardRepo struct {
	pool *pgxpool.Pool
}

func NewDashboardRepo(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

func (r *DashboardRepo) TotalProducts(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM products`)
}

func (r *DashboardRepo) TotalOrders(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM orders`)
}

func (r *DashboardRepo) PendingOrders(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM orders WHERE status = 'Pending'`)
}

func (r *DashboardRepo) Revenue(ctx context.Context, from, to time.Time) (int64, error) {
	var cents int64
	err := r.pool.QueryRow(ctx, `SELECT coalesce(sum(total_cents), 0) FROM orders
		WHERE status <> 'Cancelled' AND order_date >= $1 AND order_date < $2`,
		from, to).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("revenue: %w", err)
	}
	return cents, nil
}

func (r *DashboardRepo) TotalRevenue(ctx context.Context) (int64, error) {
	var cents int64
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(sum(total_cents), 0) FROM orders WHERE status <> 'Cancelled'`).
		Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("total revenue: %w", err)
	}
	return cents, nil
}

func (r *DashboardRepo) LowStockCount(ctx context.Context, threshold int32) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM products WHERE stock_quantity <= $1`, threshold)
}

func (r *DashboardRepo) ExpiredCount(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM products WHERE expiry_date IS NOT NULL AND expiry_date < $1`, now)
}

func (r *DashboardRepo) RecentOrders(ctx context.Context, n int) ([]domain.RecentOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT o.id, o.user_id, o.total_cents, o.status, o.order_date,
		coalesce((SELECT sum(d.quantity) FROM order_details d WHERE d.order_id = o.id), 0)
		FROM orders o
		ORDER BY o.order_date DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	defer rows.Close()

	var out []domain.RecentOrder
	for rows.Next() {
		var ro domain.RecentOrder
		var id uuid.UUID
		if err := rows.Scan(&id, &ro.UserID, &ro.AmountCents, &ro.Status, &ro.Date, &ro.ItemCount); err != nil {
			return nil, err
		}
		ro.ID = id.String()
		out = append(out, ro)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) TopProducts(ctx context.Context, n int) ([]domain.TopProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT d.product_id, d.product_name,
		sum(d.quantity) AS units, sum(d.unit_cents * d.quantity) AS revenue,
		coalesce(max(p.price_cents), 0)
		FROM order_details d
		JOIN orders o ON o.id = d.order_id
		LEFT JOIN products p ON p.id = d.product_id
		WHERE o.status <> 'Cancelled'
		GROUP BY d.product_id, d.product_name
		ORDER BY units DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []domain.TopProduct
	for rows.Next() {
		var tp domain.TopProduct
		var id uuid.UUID
		if err := rows.Scan(&id, &tp.Name, &tp.UnitsSold, &tp.RevenueCents, &tp.PriceCents); err != nil {
			return nil, err
		}
		tp.ID = id.String()
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) LowStockProducts(ctx context.Context, threshold int32, now time.Time) ([]domain.LowStock, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, stock_quantity, expiry_date, price_cents
		FROM products
		WHERE stock_quantity <= $1 OR (expiry_date IS NOT NULL AND expiry_date < $2)
		ORDER BY stock_quantity`, threshold, now)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()

	var out []domain.LowStock
	for rows.Next() {
		var ls domain.LowStock
		var id uuid.UUID
		if err := rows.Scan(&id, &ls.Name, &ls.Stock, &ls.ExpiryDate, &ls.PriceCents); err != nil {
			return nil, err
		}
		ls.ID = id.String()
		ls.Expired = ls.ExpiryDate != nil && ls.ExpiryDate.Before(now)
		out = append(out, ls)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) StatusSummary(ctx context.Context) (domain.StatusSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status`)
	if err != nil {
		return domain.StatusSummary{}, fmt.Errorf("status summary: %w", err)
	}
	defer rows.Close()

	var summary domain.StatusSummary
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusSummary{}, err
		}

		parsed, err := orderdomain.ParseStatus(status)
		if err != nil {
			continue
		}
		switch parsed {
		case orderdomain.StatusPending:
			summary.Pending += n
		case orderdomain.StatusProcessing:
			summary.Processing += n
		case orderdomain.StatusShipped:
			summary.Shipped += n
		case orderdomain.StatusDelivered:
			summary.Delivered += n
		case orderdomain.StatusCancelled:
			summary.Cancelled += n
		}
	}
	return summary, rows.Err()
}

func (r *DashboardRepo) MonthlyRevenue(ctx context.Context, months int, now time.Time) ([]domain.MonthlyPoint, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	rows, err := r.pool.Query(ctx, `SELECT date_trunc('month', order_date) AS month,
		sum(total_cents), count(*)
		FROM orders
		WHERE status <> 'Cancelled' AND order_date >= $1
		GROUP BY month
		ORDER BY month`, start)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	byMonth := make(map[string]domain.MonthlyPoint)
	for rows.Next() {
		var month time.Time
		var revenue int64
		var count int
		if err := rows.Scan(&month, &revenue, &count); err != nil {
			return nil, err
		}

		p := domain.MonthlyPoint{
			Month:        month.Format("Jan 2006"),
			RevenueCents: revenue,
			OrderCount:   count,
		}
		if count > 0 {
			p.AvgOrderCents = revenue / int64(count)
		}
		byMonth[p.Month] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Months without orders still chart as zero points.
	out := make([]domain.MonthlyPoint, 0, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("Jan 2006")
		if p, ok := byMonth[key]; ok {
			out = append(out, p)
		} else {
			out = append(out, domain.MonthlyPoint{Month: key})
		}
	}
	return out, nil
}

func (r *DashboardRepo) count(ctx context.Context, sql string, args ...any) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
