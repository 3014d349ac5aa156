package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore backs the rate-limit and lockout counters with Redis. State
// here is ephemeral by design: eviction or restart only makes the system more
// permissive, never incorrect, because OTP consumption lives in the durable
// store.
type CounterStore struct {
	client *redis.Client
}

// NewCounterStore creates a CounterStore wrapping the given Redis client.
func NewCounterStore(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

// Increment adds one to the counter at key. The TTL is attached only when the
// increment creates the key, so the window is fixed from the first event and
// later increments do not slide it.
func (s *CounterStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("counter incr: %w", err)
	}
	if n == 1 && ttl > 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("counter expire: %w", err)
		}
	}
	return n, nil
}

// Count returns the counter value, zero when the key is absent or expired.
func (s *CounterStore) Count(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("counter get: %w", err)
	}
	return n, nil
}

// SetFlag raises a boolean flag at key for the given duration.
func (s *CounterStore) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("flag set: %w", err)
	}
	return nil
}

// HasFlag reports whether the flag at key is currently raised.
func (s *CounterStore) HasFlag(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("flag check: %w", err)
	}
	return n > 0, nil
}

// Clear removes the given keys.
func (s *CounterStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("counter clear: %w", err)
	}
	return nil
}
