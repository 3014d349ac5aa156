package ports

import (
	"context"
	"time"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

// OTPRepository defines the interface for durable OTP record persistence.
// The used/expiry fields it stores are the source of truth for one-time
// consumption; counters elsewhere only throttle.
type OTPRepository interface {
	Create(ctx context.Context, otp *domain.OTP) error

	// InvalidateActive forces expires_at to now on every currently valid
	// (used=false, unexpired) record for the phone, so only the next code
	// issued is ever valid. Records are kept for audit history rather than
	// deleted. Returns the number of records invalidated.
	InvalidateActive(ctx context.Context, phone string, now time.Time) (int64, error)

	// Consume atomically marks the matching valid record (phone, code,
	// used=false, expires_at >= now) as used. Wrong, expired, and already
	// used codes are indistinguishable: all return
	// domain.ErrInvalidOrExpiredCode. Two concurrent calls for the same
	// record can never both succeed.
	Consume(ctx context.Context, phone, code string, now time.Time) error

	// DeleteOld removes used records and records that expired before the
	// cutoff. Housekeeping only; correctness never depends on it.
	DeleteOld(ctx context.Context, expiredBefore time.Time) error
}
