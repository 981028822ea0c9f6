package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/storefront/internal/order/domain"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo     Repo
	notifier Notifier
	log      *slog.Logger
}

func NewService(repo Repo, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context, f Filter) ([]domain.Order, error) {
	return s.repo.ListAll(ctx, f)
}

// UpdateStatus moves the order to a status from the closed enum and notifies
// the customer. A notification failure is logged, never returned.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, ErrInvalidInput
	}

	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Order{}, err
	}

	updated, old, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return domain.Order{}, err
	}

	if old != updated.Status {
		if err := s.notifier.OrderStatusChanged(ctx, updated, old); err != nil {
			s.log.Error("order status notification failed",
				slog.String("order_id", updated.ID), slog.Any("err", err))
		}
	}

	return updated, nil
}

// Cancel is the admin "delete": details reference the order, so it is kept
// with status Cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (domain.Order, error) {
	return s.UpdateStatus(ctx, id, string(domain.StatusCancelled))
}
