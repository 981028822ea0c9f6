package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, sessionID string) ([]checkoutapp.Line, error) {
	cart, err := r.svc.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]checkoutapp.Line, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, checkoutapp.Line{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitCents:   l.UnitCents,
			Quantity:    l.Quantity,
			Weight:      l.Weight,
			WeightUnit:  l.WeightUnit,
			Flavor:      l.Flavor,
		})
	}
	return lines, nil
}

func (r *CartServiceReader) Clear(ctx context.Context, sessionID string) error {
	return r.svc.Clear(ctx, sessionID)
}
