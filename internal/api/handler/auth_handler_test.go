package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

type stubAuthService struct {
	sendFn    func(ctx context.Context, phone string) (string, error)
	verifyFn  func(ctx context.Context, phone, code, role string) (string, *domain.User, error)
	loginFn   func(ctx context.Context, credential, password, role string) (string, *domain.User, error)
	currentFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) SendOTP(ctx context.Context, phone string) (string, error) {
	return s.sendFn(ctx, phone)
}

func (s *stubAuthService) VerifyOTP(ctx context.Context, phone, code, role string) (string, *domain.User, error) {
	return s.verifyFn(ctx, phone, code, role)
}

func (s *stubAuthService) Login(ctx context.Context, credential, password, role string) (string, *domain.User, error) {
	return s.loginFn(ctx, credential, password, role)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentFn(ctx, userID)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_SendOTP_Success(t *testing.T) {
	stub := &stubAuthService{
		sendFn: func(ctx context.Context, phone string) (string, error) {
			if phone != "5550100" {
				t.Fatalf("unexpected phone: %s", phone)
			}
			return "", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/send-otp", `{"phone":"5550100"}`)
	if err := h.SendOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["phone"] != "5550100" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, present := resp["otp"]; present {
		t.Fatalf("otp must be omitted outside debug mode: %+v", resp)
	}
}

func TestAuthHandler_SendOTP_DebugEcho(t *testing.T) {
	stub := &stubAuthService{
		sendFn: func(ctx context.Context, phone string) (string, error) {
			return "123456", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/send-otp", `{"phone":"5550100"}`)
	if err := h.SendOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["otp"] != "123456" {
		t.Fatalf("expected echoed otp, got %+v", resp)
	}
}

func TestAuthHandler_SendOTP_RateLimited(t *testing.T) {
	stub := &stubAuthService{
		sendFn: func(ctx context.Context, phone string) (string, error) {
			return "", domain.ErrRateLimited
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/send-otp", `{"phone":"5550100"}`)
	err := h.SendOTP(c)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited to propagate, got %v", err)
	}
}

func TestAuthHandler_SendOTP_InvalidPhone(t *testing.T) {
	stub := &stubAuthService{
		sendFn: func(ctx context.Context, phone string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	h := NewAuthHandler(stub)

	for _, body := range []string{`{"phone":""}`, `{"phone":"abc"}`, `{"phone":"123"}`, "not-json"} {
		c, _ := newTestContext(t, http.MethodPost, "/auth/send-otp", body)
		err := h.SendOTP(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_VerifyOTP_Success(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, phone, code, role string) (string, *domain.User, error) {
			if phone != "5550100" || code != "123456" || role != "MANAGER" {
				t.Fatalf("unexpected args: %s %s %s", phone, code, role)
			}
			return "token123", &domain.User{ID: "user_1", Phone: phone, Active: true}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/verify-otp",
		`{"phone":"5550100","code":"123456","role":"MANAGER"}`)
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "user_1" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
}

func TestAuthHandler_VerifyOTP_Failures(t *testing.T) {
	for _, want := range []error{
		domain.ErrInvalidOrExpiredCode,
		domain.ErrTooManyAttempts,
		domain.ErrUserNotFound,
		domain.ErrAccountDisabled,
		domain.ErrAccessDenied,
	} {
		stub := &stubAuthService{
			verifyFn: func(ctx context.Context, phone, code, role string) (string, *domain.User, error) {
				return "", nil, want
			},
		}
		h := NewAuthHandler(stub)

		c, _ := newTestContext(t, http.MethodPost, "/auth/verify-otp",
			`{"phone":"5550100","code":"123456"}`)
		if err := h.VerifyOTP(c); !errors.Is(err, want) {
			t.Fatalf("expected %v to propagate, got %v", want, err)
		}
	}
}

func TestAuthHandler_VerifyOTP_BadCode(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, phone, code, role string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/verify-otp",
		`{"phone":"5550100","code":"12345"}`)
	err := h.VerifyOTP(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short code, got %v", err)
	}
}

func TestAuthHandler_Login_ByPhone(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, credential, password, role string) (string, *domain.User, error) {
			if credential != "5550100" || password != "s3cret" {
				t.Fatalf("unexpected args: %s %s", credential, password)
			}
			return "token123", &domain.User{ID: "user_1", Phone: credential}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"phone":"5550100","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_EmailFallback(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, credential, password, role string) (string, *domain.User, error) {
			if credential != "owner@example.com" {
				t.Fatalf("expected email credential, got %s", credential)
			}
			return "token123", &domain.User{ID: "user_1"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"owner@example.com","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthHandler_Login_MissingCredential(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, credential, password, role string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"password":"s3cret"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, credential, password, role string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"phone":"5550100","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{ID: userID, Phone: "5550100", Active: true}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/auth/user", "")
	c.Set("user_id", "user_1")
	if err := h.CurrentUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["phone"] != "5550100" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["PasswordHash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_CurrentUser_MissingClaims(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(ctx context.Context, userID string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/auth/user", "")
	err := h.CurrentUser(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
