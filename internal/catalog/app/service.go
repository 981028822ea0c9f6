package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("product unavailable")
	ErrExpired      = errors.New("product expired")
	ErrOutOfStock   = errors.New("insufficient stock")
)

type Service struct {
	repo ProductRepo
	now  func() time.Time
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := s.validate(&p); err != nil {
		return domain.Product{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if strings.TrimSpace(p.ID) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	if _, err := s.repo.Get(ctx, p.ID); err != nil {
		return domain.Product{}, err
	}
	if err := s.validate(&p); err != nil {
		return domain.Product{}, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}

// CheckAvailability is the soft purchasability check used when items enter a
// cart. The authoritative check is the conditional decrement at checkout.
func (s *Service) CheckAvailability(ctx context.Context, id string, quantity int32) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsAvailable {
		return ErrUnavailable
	}
	if p.Expired(s.now()) {
		return ErrExpired
	}
	if p.StockQuantity < quantity {
		return ErrOutOfStock
	}
	return nil
}

func (s *Service) validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.PriceCents <= 0 || p.Weight < 0 || p.StockQuantity < 0 {
		return ErrInvalidInput
	}
	if p.WeightUnit == "" {
		p.WeightUnit = "g"
	}
	if p.ExpiryDate != nil && !p.ExpiryDate.After(s.now()) {
		return ErrInvalidInput
	}
	return nil
}
