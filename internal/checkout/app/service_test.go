package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

type fakeCart struct {
	mu    sync.Mutex
	lines map[string][]Line
}

func newFakeCart() *fakeCart {
	return &fakeCart{lines: map[string][]Line{}}
}

func (f *fakeCart) GetCart(ctx context.Context, sessionID string) ([]Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines[sessionID], nil
}

func (f *fakeCart) Clear(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, sessionID)
	return nil
}

// fakeOrders mimics the transactional repository: every line's stock is
// conditionally decremented under one lock, and any shortfall rolls the whole
// order back with a StockError.
type fakeOrders struct {
	mu      sync.Mutex
	stock   map[string]int32
	created []orderdomain.Order
	err     error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, o orderdomain.Order) (orderdomain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return orderdomain.Order{}, f.err
	}

	for _, d := range o.Details {
		if f.stock[d.ProductID] < d.Quantity {
			return orderdomain.Order{}, &domain.StockError{Problems: []domain.Problem{{
				ProductID:   d.ProductID,
				ProductName: d.ProductName,
				Reason:      domain.ReasonInsufficientStock,
				Requested:   d.Quantity,
				Available:   f.stock[d.ProductID],
			}}}
		}
	}
	for _, d := range o.Details {
		f.stock[d.ProductID] -= d.Quantity
	}

	o.ID = "order-1"
	f.created = append(f.created, o)
	return o, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []string
	err       error
}

func (f *fakeNotifier) OrderConfirmed(ctx context.Context, o orderdomain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, o.ID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type checkoutFixture struct {
	cart     *fakeCart
	orders   *fakeOrders
	notifier *fakeNotifier
	svc      *Service
}

func newFixture(stock map[string]int32) *checkoutFixture {
	cart := newFakeCart()
	orders := &fakeOrders{stock: stock}
	notifier := &fakeNotifier{}
	svc := NewService(cart, NewValidator(liveCatalog{orders}, 4), orders, notifier, discardLogger())
	return &checkoutFixture{cart: cart, orders: orders, notifier: notifier, svc: svc}
}

// liveCatalog reads stock from the same source the order repository mutates,
// the way the real validator reads the products table.
type liveCatalog struct {
	orders *fakeOrders
}

func (c liveCatalog) GetProduct(ctx context.Context, productID string) (Product, error) {
	c.orders.mu.Lock()
	defer c.orders.mu.Unlock()
	n, ok := c.orders.stock[productID]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return Product{ID: productID, Name: "p-" + productID, Stock: n, IsAvailable: true}, nil
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string]int32{"p1": 5})
	fx.cart.lines["s1"] = []Line{{ProductID: "p1", ProductName: "Green Tea", UnitCents: 1000, Quantity: 2}}

	order, err := fx.svc.Checkout(ctx, "s1", "u1", "12 Harbor Rd", "leave at door")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != orderdomain.StatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.TotalCents != 2000 {
		t.Fatalf("expected total 2000, got %d", order.TotalCents)
	}
	if got := fx.orders.stock["p1"]; got != 3 {
		t.Fatalf("expected stock 3 after decrement, got %d", got)
	}
	if lines, _ := fx.cart.GetCart(ctx, "s1"); len(lines) != 0 {
		t.Fatalf("expected cart cleared, got %+v", lines)
	}
	if len(fx.notifier.confirmed) != 1 {
		t.Fatalf("expected one confirmation, got %v", fx.notifier.confirmed)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string]int32{"p1": 3})
	fx.cart.lines["s1"] = []Line{{ProductID: "p1", ProductName: "Green Tea", UnitCents: 1000, Quantity: 5}}

	_, err := fx.svc.Checkout(ctx, "s1", "u1", "12 Harbor Rd", "")

	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	p := stockErr.Problems[0]
	if p.Requested != 5 || p.Available != 3 {
		t.Fatalf("expected requested 5 / available 3, got %+v", p)
	}
	if got := fx.orders.stock["p1"]; got != 3 {
		t.Fatalf("stock mutated on failed checkout: %d", got)
	}
	if lines, _ := fx.cart.GetCart(ctx, "s1"); len(lines) != 1 {
		t.Fatalf("cart must survive a failed checkout, got %+v", lines)
	}
	if len(fx.orders.created) != 0 {
		t.Fatalf("no order may exist after a failed checkout")
	}
}

func TestCheckoutInputValidation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string]int32{"p1": 5})
	fx.cart.lines["s1"] = []Line{{ProductID: "p1", UnitCents: 100, Quantity: 1}}

	t.Run("missing user", func(t *testing.T) {
		if _, err := fx.svc.Checkout(ctx, "s1", "  ", "addr", ""); !errors.Is(err, domain.ErrMissingUser) {
			t.Fatalf("expected ErrMissingUser, got %v", err)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		if _, err := fx.svc.Checkout(ctx, "s1", "u1", "   ", ""); !errors.Is(err, domain.ErrMissingAddress) {
			t.Fatalf("expected ErrMissingAddress, got %v", err)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		if _, err := fx.svc.Checkout(ctx, "empty-session", "u1", "addr", ""); !errors.Is(err, domain.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})
}

func TestCheckoutPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string]int32{"p1": 5})
	fx.cart.lines["s1"] = []Line{{ProductID: "p1", UnitCents: 100, Quantity: 1}}
	fx.orders.err = errors.New("connection reset")

	_, err := fx.svc.Checkout(ctx, "s1", "u1", "addr", "")
	if !errors.Is(err, domain.ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
	if lines, _ := fx.cart.GetCart(ctx, "s1"); len(lines) != 1 {
		t.Fatalf("cart must survive a persistence failure, got %+v", lines)
	}
}

func TestCheckoutNotifierFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string]int32{"p1": 5})
	fx.cart.lines["s1"] = []Line{{ProductID: "p1", UnitCents: 100, Quantity: 1}}
	fx.notifier.err = errors.New("broker down")

	order, err := fx.svc.Checkout(ctx, "s1", "u1", "addr", "")
	if err != nil {
		t.Fatalf("notifier failure must not fail checkout: %v", err)
	}
	if order.ID == "" {
		t.Fatalf("expected persisted order")
	}
}

func TestConcurrentCheckoutLastUnit(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string]int32{"p1": 1})

	const shoppers = 8
	for i := 0; i < shoppers; i++ {
		fx.cart.lines[session(i)] = []Line{{ProductID: "p1", ProductName: "Last One", UnitCents: 700, Quantity: 1}}
	}

	var wg sync.WaitGroup
	errs := make([]error, shoppers)
	for i := 0; i < shoppers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.Checkout(ctx, session(i), "u1", "addr", "")
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		var stockErr *domain.StockError
		switch {
		case err == nil:
			wins++
		case errors.As(err, &stockErr):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if conflicts != shoppers-1 {
		t.Fatalf("expected %d stock conflicts, got %d", shoppers-1, conflicts)
	}
	if got := fx.orders.stock["p1"]; got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
	if len(fx.orders.created) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(fx.orders.created))
	}
}

func session(i int) string {
	return string(rune('a' + i))
}
