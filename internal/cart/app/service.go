package app

import (
	"context"
	"errors"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnavailable       = errors.New("product not available")
	ErrExpired           = errors.New("product expired")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	store   Store
	catalog CatalogReader
	now     func() time.Time
}

func NewService(store Store, catalog CatalogReader) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// GetCart returns the session's cart, or a fresh empty one. It never fails on
// a missing cart.
func (s *Service) GetCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ErrNoCart) {
		return domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// AddItem snapshots the product into the cart after a soft purchasability
// check. The authoritative stock check happens again at checkout.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int32) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	// The soft check covers what is already in the cart plus the new amount.
	total := cart.Quantity(productID) + quantity
	switch {
	case !p.IsAvailable:
		return domain.Cart{}, ErrUnavailable
	case p.ExpiryDate != nil && p.ExpiryDate.Before(s.now()):
		return domain.Cart{}, ErrExpired
	case p.Stock < total:
		return domain.Cart{}, ErrInsufficientStock
	}

	cart.Add(domain.Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitCents:   p.UnitCents,
		Quantity:    quantity,
		Weight:      p.Weight,
		WeightUnit:  p.WeightUnit,
		Flavor:      p.Flavor,
	})

	if err := s.put(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int32) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.SetQuantity(productID, quantity)

	if err := s.put(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.Remove(productID)

	if err := s.put(ctx, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) Count(ctx context.Context, sessionID string) (int32, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

func (s *Service) put(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = s.now()
	return s.store.Put(ctx, *cart)
}
