package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

const sweepInterval = 30 * time.Second

// Store keeps carts in process memory, keyed by session. Entries expire after
// the session idle TTL; a background sweeper reclaims them.
type Store struct {
	mu    sync.RWMutex
	carts map[string]entry
	ttl   time.Duration
	now   func() time.Time

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

type entry struct {
	cart      domain.Cart
	expiresAt time.Time
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		carts:     make(map[string]entry),
		ttl:       ttl,
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.sweepLoop()

	return s
}

func (s *Store) Get(_ context.Context, sessionID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.carts[sessionID]
	if !ok || s.now().After(e.expiresAt) {
		return domain.Cart{}, app.ErrNoCart
	}

	// Copy the lines so callers can edit the cart without touching the
	// stored entry until they Put it back.
	cart := e.cart
	cart.Lines = append([]domain.Line(nil), e.cart.Lines...)
	return cart, nil
}

func (s *Store) Put(_ context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.SessionID] = entry{
		cart:      cart,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func (s *Store) Close() {
	close(s.stopSweep)
	s.wg.Wait()
}

func (s *Store) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for sid, e := range s.carts {
		if now.After(e.expiresAt) {
			delete(s.carts, sid)
		}
	}
}
