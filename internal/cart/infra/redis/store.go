package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/redis/go-redis/v9"
)

// Store persists carts as JSON blobs in redis. Reads and writes both refresh
// the idle TTL, so a cart lives as long as the session keeps touching it.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

func (s *Store) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	data, err := s.client.GetEx(ctx, cartKey(sessionID), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, app.ErrNoCart
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	cart.SessionID = sessionID

	return cart, nil
}

func (s *Store) Put(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(cart.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
