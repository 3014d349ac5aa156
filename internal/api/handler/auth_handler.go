package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Divyadarshini04/Billing-Backend/internal/api/metrics"
	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
	"github.com/Divyadarshini04/Billing-Backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required,numeric,min=7,max=15"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,numeric,min=7,max=15"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
	Role  string `json:"role,omitempty"`
}

type loginRequest struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty"`
}

type sendOTPResponse struct {
	Detail string `json:"detail"`
	Phone  string `json:"phone"`
	OTP    string `json:"otp,omitempty"` // populated in debug echo mode only
}

type authResponse struct {
	Detail string       `json:"detail"`
	Token  string       `json:"token,omitempty"`
	User   *domain.User `json:"user,omitempty"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// SendOTP issues a one-time passcode for a phone number.
//
// @Summary      Send OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendOTPRequest  true  "Target phone number"
// @Success      201   {object}  sendOTPResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	code, err := h.authService.SendOTP(c.Request().Context(), req.Phone)
	if err != nil {
		metrics.OTPSendsTotal.WithLabelValues(sendResult(err)).Inc()
		return err
	}
	metrics.OTPSendsTotal.WithLabelValues("sent").Inc()

	return c.JSON(http.StatusCreated, sendOTPResponse{
		Detail: "OTP sent successfully",
		Phone:  req.Phone,
		OTP:    code,
	})
}

// VerifyOTP consumes a submitted code and returns a bearer token.
//
// @Summary      Verify OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Phone, code, and optional role"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.VerifyOTP(c.Request().Context(), req.Phone, req.Code, req.Role)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
		return err
	}
	metrics.OTPVerificationsTotal.WithLabelValues("verified").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Detail: "OTP verified successfully",
		Token:  token,
		User:   user,
	})
}

// Login authenticates a phone-or-email credential with a password.
//
// @Summary      Password login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credential, password, and optional role"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	credential := req.Phone
	if credential == "" {
		credential = req.Email
	}
	if credential == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone or email is required")
	}

	token, user, err := h.authService.Login(c.Request().Context(), credential, req.Password, req.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Detail: "Login successful",
		Token:  token,
		User:   user,
	})
}

// CurrentUser returns the authenticated user's summary.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Logout acknowledges a logout. Tokens are stateless; there is no server-side
// revocation here.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  detailResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, detailResponse{Detail: "Logged out successfully"})
}

func sendResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "account_disabled"
	default:
		return "error"
	}
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "locked_out"
	case errors.Is(err, domain.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "account_disabled"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "account_disabled"
	case errors.Is(err, domain.ErrAccessDenied):
		return "access_denied"
	default:
		return "error"
	}
}
