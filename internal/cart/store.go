package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"
)

// KV is the slice of the redis client the cart needs.
type KV interface {
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
	PromoKey(sessionID string) string
}

// Store keeps session carts as redis hashes of product id to quantity, with
// the applied promo code in a sibling key. Both expire together.
type Store struct {
	kv  KV
	ttl time.Duration
}

// NewStore builds the cart store.
func NewStore(kv KV, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// IncrementItem adjusts the quantity for the product and refreshes the cart
// TTL. Returns the new quantity.
func (s *Store) IncrementItem(ctx context.Context, sessionID string, productID uuid.UUID, delta int64) (int64, error) {
	key := s.kv.CartKey(sessionID)
	qty, err := s.kv.HIncrBy(ctx, key, productID.String(), delta)
	if err != nil {
		return 0, err
	}
	if err := s.kv.Expire(ctx, key, s.ttl); err != nil {
		return 0, err
	}
	return qty, nil
}

// Items returns the cart as product id to quantity. Non-positive or
// unparseable entries are dropped.
func (s *Store) Items(ctx context.Context, sessionID string) (map[uuid.UUID]int, error) {
	raw, err := s.kv.HGetAll(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		return nil, err
	}
	items := make(map[uuid.UUID]int, len(raw))
	for field, value := range raw {
		id, err := uuid.Parse(field)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty <= 0 {
			continue
		}
		items[id] = qty
	}
	return items, nil
}

// RemoveItem drops the product from the cart.
func (s *Store) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return s.kv.HDel(ctx, s.kv.CartKey(sessionID), productID.String())
}

// SetItemQuantity forces the quantity to an exact value, used when stock
// re-validation clamps a line down.
func (s *Store) SetItemQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return err
	}
	current := items[productID]
	if current == qty {
		return nil
	}
	_, err = s.kv.HIncrBy(ctx, s.kv.CartKey(sessionID), productID.String(), int64(qty-current))
	return err
}

// SetPromo records the applied promo code for the session.
func (s *Store) SetPromo(ctx context.Context, sessionID, code string) error {
	return s.kv.Set(ctx, s.kv.PromoKey(sessionID), code, s.ttl)
}

// Promo returns the session's applied promo code, empty when none.
func (s *Store) Promo(ctx context.Context, sessionID string) (string, error) {
	code, err := s.kv.Get(ctx, s.kv.PromoKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

// Clear wipes the cart and any applied promo code.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.kv.CartKey(sessionID), s.kv.PromoKey(sessionID))
}
