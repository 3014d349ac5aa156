package domain

import "time"

// OTP is a single one-time passcode record tied to a phone number.
//
// A record is valid while used=false and ExpiresAt is in the future. Issuing a
// new code forces ExpiresAt to "now" on every previously valid record for the
// same phone, so at most one record is ever valid per phone. The transition
// used=false→true happens exactly once, under the store's atomic consume; no
// terminal state ever reverts.
type OTP struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// Valid reports whether the record can still be consumed at the given instant.
func (o *OTP) Valid(now time.Time) bool {
	return !o.Used && !o.ExpiresAt.Before(now)
}
