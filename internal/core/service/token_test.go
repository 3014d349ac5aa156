package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

func TestTokenIssuer_Issue(t *testing.T) {
	issuer := NewTokenIssuer("secret", 24*time.Hour)
	before := time.Now().Unix()

	token, err := issuer.Issue(&domain.User{ID: "user_42"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}

	if claims["user_id"] != "user_42" {
		t.Fatalf("user_id = %v", claims["user_id"])
	}
	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	if iat < before || iat > time.Now().Unix() {
		t.Fatalf("iat out of range: %d", iat)
	}
	if exp-iat != int64((24 * time.Hour).Seconds()) {
		t.Fatalf("expiry window = %ds", exp-iat)
	}
}

func TestTokenIssuer_WrongSecretRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(&domain.User{ID: "user_1"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	if issuer.ttl != 24*time.Hour {
		t.Fatalf("default ttl = %v", issuer.ttl)
	}
}
