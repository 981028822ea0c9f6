package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"golang.org/x/sync/errgroup"
)

// ErrProductNotFound is what a CatalogReader returns for an unknown product;
// the validator folds it into a Problem instead of failing the whole pass.
var ErrProductNotFound = errors.New("product not found")

// Validator confirms every cart line is purchasable against the live catalog.
// It is advisory: the authoritative check is the conditional decrement inside
// the checkout transaction.
type Validator struct {
	catalog CatalogReader
	now     func() time.Time

	maxConcurrent int
}

func NewValidator(catalog CatalogReader, maxConcurrent int) *Validator {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &Validator{
		catalog:       catalog,
		now:           time.Now,
		maxConcurrent: maxConcurrent,
	}
}

// Validate re-reads the catalog for every line and returns the problems
// found, in cart order. A nil slice means the cart is purchasable.
func (v *Validator) Validate(ctx context.Context, lines []Line) ([]domain.Problem, error) {
	found := make([]*domain.Problem, len(lines))
	now := v.now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxConcurrent)

	for idx := range lines {
		idx := idx
		g.Go(func() error {
			line := lines[idx]

			p, err := v.catalog.GetProduct(ctx, line.ProductID)
			if errors.Is(err, ErrProductNotFound) {
				found[idx] = &domain.Problem{
					ProductID:   line.ProductID,
					ProductName: line.ProductName,
					Reason:      domain.ReasonNotFound,
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("read product %s: %w", line.ProductID, err)
			}

			switch {
			case !p.IsAvailable:
				found[idx] = &domain.Problem{
					ProductID:   p.ID,
					ProductName: line.ProductName,
					Reason:      domain.ReasonUnavailable,
				}
			case p.ExpiryDate != nil && p.ExpiryDate.Before(now):
				found[idx] = &domain.Problem{
					ProductID:   p.ID,
					ProductName: line.ProductName,
					Reason:      domain.ReasonExpired,
				}
			case p.Stock < line.Quantity:
				found[idx] = &domain.Problem{
					ProductID:   p.ID,
					ProductName: line.ProductName,
					Reason:      domain.ReasonInsufficientStock,
					Requested:   line.Quantity,
					Available:   p.Stock,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var problems []domain.Problem
	for _, p := range found {
		if p != nil {
			problems = append(problems, *p)
		}
	}
	return problems, nil
}
