package ports

import (
	"context"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

// AuthService is the OTP and password authentication core.
type AuthService interface {
	// SendOTP issues a fresh code for the phone, invalidating all previous
	// ones. The returned code is empty unless debug echo mode is enabled.
	SendOTP(ctx context.Context, phone string) (string, error)

	// VerifyOTP consumes the submitted code exactly once and, when the
	// resolved user passes the role gate, returns a signed bearer token.
	VerifyOTP(ctx context.Context, phone, code, requestedRole string) (string, *domain.User, error)

	// Login authenticates a phone-or-email credential with a password.
	Login(ctx context.Context, credential, password, requestedRole string) (string, *domain.User, error)

	// CurrentUser resolves a previously authenticated identity by ID.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
