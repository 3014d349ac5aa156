package domain

import "errors"

// Authentication failure taxonomy. All are terminal and reported synchronously;
// none trigger an internal retry. ErrInvalidOrExpiredCode and
// ErrInvalidCredentials deliberately do not distinguish their sub-causes so
// callers cannot probe which case occurred.
var (
	ErrRateLimited          = errors.New("rate limit exceeded, try again later")
	ErrTooManyAttempts      = errors.New("too many failed attempts, try again later")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired otp")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDisabled      = errors.New("account is deactivated")
	ErrUserNotFound         = errors.New("user not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrUserExists           = errors.New("user already exists")
	ErrRoleAssigned         = errors.New("role already assigned to user")
)
