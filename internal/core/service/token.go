package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

// TokenIssuer mints signed, self-contained bearer tokens. Tokens are not
// persisted; expiry forces full re-authentication (no refresh rotation).
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 token carrying the user identifier plus issued-at and
// expiry timestamps.
func (t *TokenIssuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}
