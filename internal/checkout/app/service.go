package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

// Service converts a session cart into a persisted order with all-or-nothing
// semantics across stock decrements and order rows. Every failure path leaves
// the cart untouched so the customer can correct and resubmit.
type Service struct {
	cart      CartReader
	validator *Validator
	orders    OrderCreator
	notifier  Notifier
	log       *slog.Logger
	now       func() time.Time
}

func NewService(cart CartReader, validator *Validator, orders OrderCreator, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		cart:      cart,
		validator: validator,
		orders:    orders,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) Checkout(ctx context.Context, sessionID, userID, shippingAddress, notes string) (orderdomain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return orderdomain.Order{}, domain.ErrMissingUser
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return orderdomain.Order{}, domain.ErrMissingAddress
	}

	lines, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return orderdomain.Order{}, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return orderdomain.Order{}, domain.ErrEmptyCart
	}

	// Advisory pass; the conditional decrements inside the transaction guard
	// the validation-to-commit race.
	problems, err := s.validator.Validate(ctx, lines)
	if err != nil {
		return orderdomain.Order{}, fmt.Errorf("%w: %s", domain.ErrCheckoutFailed, err)
	}
	if len(problems) > 0 {
		return orderdomain.Order{}, &domain.StockError{Problems: problems}
	}

	o := s.buildOrder(userID, shippingAddress, notes, lines)

	created, err := s.orders.CreateOrder(ctx, o)
	if err != nil {
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			return orderdomain.Order{}, stockErr
		}
		return orderdomain.Order{}, fmt.Errorf("%w: %s", domain.ErrCheckoutFailed, err)
	}

	// The order is durable from here on. Cart cleanup and the confirmation
	// event must not fail the checkout.
	if err := s.cart.Clear(ctx, sessionID); err != nil {
		s.log.Error("clear cart after checkout failed",
			slog.String("session_id", sessionID), slog.Any("err", err))
	}

	if err := s.notifier.OrderConfirmed(ctx, created); err != nil {
		s.log.Error("order confirmation notification failed",
			slog.String("order_id", created.ID), slog.Any("err", err))
	}

	return created, nil
}

func (s *Service) buildOrder(userID, shippingAddress, notes string, lines []Line) orderdomain.Order {
	details := make([]orderdomain.Detail, 0, len(lines))
	var total int64

	for _, l := range lines {
		details = append(details, orderdomain.Detail{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitCents:   l.UnitCents,
			Weight:      l.Weight,
			WeightUnit:  l.WeightUnit,
			Flavor:      l.Flavor,
		})
		total += l.UnitCents * int64(l.Quantity)
	}

	return orderdomain.Order{
		UserID:          userID,
		OrderDate:       s.now().UTC(),
		Status:          orderdomain.StatusPending,
		TotalCents:      total,
		ShippingAddress: strings.TrimSpace(shippingAddress),
		Notes:           strings.TrimSpace(notes),
		Details:         details,
	}
}
