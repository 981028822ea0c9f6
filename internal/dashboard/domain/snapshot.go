package domain

import "time"

// Snapshot is the derived, cached aggregate behind the admin dashboard. It
// holds no source-of-truth data and is always replaceable.
type Snapshot struct {
	TotalProducts       int             `json:"totalProducts"`
	TotalOrders         int             `json:"totalOrders"`
	PendingOrders       int             `json:"pendingOrders"`
	MonthlyRevenueCents int64           `json:"monthlyRevenue"`
	TotalRevenueCents   int64           `json:"totalRevenue"`
	LowStockCount       int             `json:"lowStockCount"`
	ExpiredCount        int             `json:"expiredProductsCount"`
	RecentOrders        []RecentOrder   `json:"recentOrders"`
	TopProducts         []TopProduct    `json:"topProducts"`
	LowStockProducts    []LowStock      `json:"lowStockProducts"`
	StatusSummary       StatusSummary   `json:"orderStatusSummary"`
	MonthlyTrend        []MonthlyPoint  `json:"monthlyRevenueData"`
	GeneratedAt         time.Time       `json:"generatedAt"`
}

type RecentOrder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amount"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	ItemCount   int32     `json:"itemCount"`
}

type TopProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UnitsSold    int64  `json:"salesCount"`
	RevenueCents int64  `json:"revenue"`
	PriceCents   int64  `json:"price"`
}

type LowStock struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Stock      int32      `json:"stock"`
	Expired    bool       `json:"isExpired"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	PriceCents int64      `json:"price"`
}

// StatusSummary is the order status histogram. Legacy Completed rows count as
// Delivered.
type StatusSummary struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
	Cancelled  int `json:"cancelled"`
}

type MonthlyPoint struct {
	Month         string `json:"month"`
	RevenueCents  int64  `json:"revenue"`
	OrderCount    int    `json:"orderCount"`
	AvgOrderCents int64  `json:"averageOrderValue"`
}
