package ports

import (
	"context"
	"time"
)

// CounterStore is a volatile, expiring key→counter/flag store used for rate
// limiting and brute-force lockouts. It carries no durability guarantee: lost
// state only makes the system more permissive, never less correct, because
// OTP consumption is enforced by the durable store. Counter writes are not
// transactionally linked to OTP consumption; a crash between the two may
// under-count failures, which is an accepted trade-off.
type CounterStore interface {
	// Increment adds one to the counter at key and returns the new value.
	// The TTL is applied only when the increment creates the key, giving a
	// fixed-size window that is not refreshed by later increments.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Count returns the current counter value, zero when the key is absent.
	Count(ctx context.Context, key string) (int64, error)

	// SetFlag raises a boolean flag at key for the given duration.
	SetFlag(ctx context.Context, key string, ttl time.Duration) error

	// HasFlag reports whether the flag at key is currently raised.
	HasFlag(ctx context.Context, key string) (bool, error)

	// Clear removes the given keys, counters and flags alike.
	Clear(ctx context.Context, keys ...string) error
}
