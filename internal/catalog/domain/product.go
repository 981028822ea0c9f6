package domain

import "time"

// Product is the stock-relevant catalog view. Prices are integer cents.
type Product struct {
	ID            string
	Name          string
	Description   string
	Brand         string
	Flavor        string
	ImageURL      string
	PriceCents    int64
	StockQuantity int32
	Weight        int64
	WeightUnit    string
	IsAvailable   bool
	ExpiryDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

func (p Product) Expired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}
