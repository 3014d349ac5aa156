package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
	"github.com/Divyadarshini04/Billing-Backend/internal/core/ports"
)

const (
	// sendRateWindow bounds how many codes one phone may request; the TTL is
	// set on the first send of a window and not refreshed afterwards.
	sendRateWindow = time.Hour
	// failureWindow bounds how long failed verify attempts are remembered.
	failureWindow = time.Hour
	// otpRetention is how long dead OTP records stay around for audit before
	// the opportunistic sweep removes them.
	otpRetention = 24 * time.Hour

	codeMax = 1000000 // 6-digit codes, zero padded
)

// Config carries the tunable limits of the authentication core.
type Config struct {
	OTPExpiry         time.Duration // validity window of a fresh code
	MaxSendsPerWindow int           // sends per phone per hour
	MaxVerifyAttempts int           // failures per (phone, code) before lockout
	LockDuration      time.Duration
	DebugEchoCode     bool // return the code in the response; test automation only
}

// AuthService implements OTP issue/verify and password login, composing
// rate limiting, brute-force lockout, the role gate, and token issuance.
//
// Throttle counters live in the volatile CounterStore and are deliberately
// not transactional with OTP consumption: the durable record's used/expiry
// fields alone decide one-time consumption.
type AuthService struct {
	users    ports.UserRepository
	otps     ports.OTPRepository
	counters ports.CounterStore
	sender   ports.OTPSender
	tokens   *TokenIssuer
	cfg      Config
	log      zerolog.Logger
	audit    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	otps ports.OTPRepository,
	counters ports.CounterStore,
	sender ports.OTPSender,
	tokens *TokenIssuer,
	cfg Config,
	log zerolog.Logger,
) *AuthService {
	if cfg.OTPExpiry <= 0 {
		cfg.OTPExpiry = 5 * time.Minute
	}
	if cfg.MaxSendsPerWindow <= 0 {
		cfg.MaxSendsPerWindow = 5
	}
	if cfg.MaxVerifyAttempts <= 0 {
		cfg.MaxVerifyAttempts = 5
	}
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = 300 * time.Second
	}
	return &AuthService{
		users:    users,
		otps:     otps,
		counters: counters,
		sender:   sender,
		tokens:   tokens,
		cfg:      cfg,
		log:      log,
		audit:    log.With().Bool("audit", true).Logger(),
	}
}

// SendOTP issues a fresh code for the phone. A phone with no user record may
// still request a code (pre-provisioned and self-serve flows look the same
// here); a deactivated user may not. Every previously valid code for the
// phone is invalidated the instant the new one is created.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (string, error) {
	rateKey := sendRateKey(phone)

	count, err := s.counters.Count(ctx, rateKey)
	if err != nil {
		return "", fmt.Errorf("send otp: rate check: %w", err)
	}
	if count >= int64(s.cfg.MaxSendsPerWindow) {
		s.log.Warn().Str("phone", phone).Msg("otp send rate limit exceeded")
		return "", domain.ErrRateLimited
	}
	if _, err := s.counters.Increment(ctx, rateKey, sendRateWindow); err != nil {
		return "", fmt.Errorf("send otp: rate increment: %w", err)
	}

	user, err := s.users.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		if !user.Active {
			return "", domain.ErrAccountDisabled
		}
	case errors.Is(err, domain.ErrUserNotFound):
		// Unknown phones proceed; provisioning is a separate concern.
	default:
		return "", fmt.Errorf("send otp: lookup user: %w", err)
	}

	now := time.Now().UTC()

	// Best-effort sweep of dead records before issuing.
	if err := s.otps.DeleteOld(ctx, now.Add(-otpRetention)); err != nil {
		s.log.Warn().Err(err).Msg("otp sweep failed")
	}

	invalidated, err := s.otps.InvalidateActive(ctx, phone, now)
	if err != nil {
		return "", fmt.Errorf("send otp: invalidate previous: %w", err)
	}
	if invalidated > 0 {
		s.log.Info().Str("phone", phone).Int64("count", invalidated).Msg("invalidated previous otps")
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("send otp: generate code: %w", err)
	}

	otp := &domain.OTP{
		Phone:     phone,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.OTPExpiry),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return "", fmt.Errorf("send otp: create record: %w", err)
	}

	s.audit.Info().Str("phone", phone).Msg("otp send requested")

	if err := s.sender.Send(ctx, phone, code); err != nil {
		return "", fmt.Errorf("send otp: deliver: %w", err)
	}

	if s.cfg.DebugEchoCode {
		return code, nil
	}
	return "", nil
}

// VerifyOTP consumes the submitted (phone, code) pair with exactly-once
// semantics. A consumed code is never returned to validity, even when the
// role gate rejects the request afterwards.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code, requestedRole string) (string, *domain.User, error) {
	failKey := verifyFailKey(phone, code)
	lockKey := verifyLockKey(phone, code)

	locked, err := s.counters.HasFlag(ctx, lockKey)
	if err != nil {
		return "", nil, fmt.Errorf("verify otp: lockout check: %w", err)
	}
	if locked {
		return "", nil, domain.ErrTooManyAttempts
	}

	failures, err := s.counters.Count(ctx, failKey)
	if err != nil {
		return "", nil, fmt.Errorf("verify otp: failure count: %w", err)
	}
	if failures >= int64(s.cfg.MaxVerifyAttempts) {
		if err := s.counters.SetFlag(ctx, lockKey, s.cfg.LockDuration); err != nil {
			return "", nil, fmt.Errorf("verify otp: set lockout: %w", err)
		}
		s.log.Warn().Str("phone", phone).Msg("otp verification locked out")
		return "", nil, domain.ErrTooManyAttempts
	}

	// Resolve the identity up front: a deactivated user must never
	// authenticate, and must not burn the record trying.
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("verify otp: lookup user: %w", err)
	}
	if user != nil && !user.Active {
		s.log.Warn().Str("phone", phone).Msg("otp verification for inactive user")
		return "", nil, domain.ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.otps.Consume(ctx, phone, code, now); err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredCode) {
			if _, cerr := s.counters.Increment(ctx, failKey, failureWindow); cerr != nil {
				s.log.Warn().Err(cerr).Msg("failure counter increment failed")
			}
			s.log.Warn().Str("phone", phone).Int64("attempt", failures+1).Msg("otp verification failed")
			return "", nil, domain.ErrInvalidOrExpiredCode
		}
		return "", nil, fmt.Errorf("verify otp: %w", err)
	}

	// Forgiveness on success: drop the failure counter and lockout flag now
	// rather than waiting for their windows to lapse.
	if err := s.counters.Clear(ctx, failKey, lockKey); err != nil {
		s.log.Warn().Err(err).Msg("counter clear failed")
	}

	if user == nil {
		// Verified users are never auto-created here; provisioning is a
		// separate, privileged operation. The code stays consumed.
		return "", nil, domain.ErrUserNotFound
	}

	// The code above is already consumed; a role-gate rejection does not
	// return it to validity.
	if err := s.checkRole(user, requestedRole); err != nil {
		return "", nil, err
	}

	s.audit.Info().Str("phone", phone).Str("user_id", user.ID).Msg("otp verified")

	if err := s.otps.DeleteOld(ctx, now.Add(-otpRetention)); err != nil {
		s.log.Warn().Err(err).Msg("otp sweep failed")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("verify otp: issue token: %w", err)
	}
	return token, user, nil
}

// Login authenticates a phone-or-email credential with a password. Unknown
// credential and wrong password are indistinguishable to the caller. This
// flow carries no rate limiter or lockout.
func (s *AuthService) Login(ctx context.Context, credential, password, requestedRole string) (string, *domain.User, error) {
	if credential == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByPhone(ctx, credential)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.users.FindByEmail(ctx, credential)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, domain.ErrAccountDisabled
	}
	if err := s.checkRole(user, requestedRole); err != nil {
		return "", nil, err
	}

	s.audit.Info().Str("user_id", user.ID).Msg("password login")

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}
	return token, user, nil
}

// CurrentUser resolves a previously authenticated identity by ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

// checkRole is the role gate: an empty request passes, the super-admin flag
// satisfies any role, otherwise the user must hold an exact assignment. The
// requested role name is included in the failure so clients can show it.
func (s *AuthService) checkRole(user *domain.User, requested string) error {
	if requested == "" {
		return nil
	}
	if user.HasRole(requested) {
		return nil
	}
	s.log.Warn().Str("phone", user.Phone).Str("requested_role", requested).Msg("role check failed")
	return fmt.Errorf("%w: not authorized as %s", domain.ErrAccessDenied, requested)
}

func sendRateKey(phone string) string {
	return "otp:rate:" + phone
}

func verifyFailKey(phone, code string) string {
	return fmt.Sprintf("otp:fail:%s:%s", phone, code)
}

func verifyLockKey(phone, code string) string {
	return fmt.Sprintf("otp:lock:%s:%s", phone, code)
}

// generateCode draws a uniform 6-digit numeric code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
