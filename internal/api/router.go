package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Divyadarshini04/Billing-Backend/internal/api/handler"
	"github.com/Divyadarshini04/Billing-Backend/internal/api/middleware"
	"github.com/Divyadarshini04/Billing-Backend/internal/core/ports"
	"github.com/Divyadarshini04/Billing-Backend/internal/core/service"
	"github.com/Divyadarshini04/Billing-Backend/internal/infrastructure/config"
	mongostore "github.com/Divyadarshini04/Billing-Backend/internal/infrastructure/db/mongo"
	redisstore "github.com/Divyadarshini04/Billing-Backend/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The sender is injected so the caller controls delivery lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, sender ports.OTPSender, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("billing"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	otpRepo := mongostore.NewOTPRepository(db)
	counters := redisstore.NewCounterStore(rdb)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())

	authService := service.NewAuthService(userRepo, otpRepo, counters, sender, tokens, service.Config{
		OTPExpiry:         cfg.OTP.Expiry(),
		MaxSendsPerWindow: cfg.OTP.MaxPerHour,
		MaxVerifyAttempts: cfg.OTP.MaxVerifyAttempts,
		LockDuration:      cfg.OTP.LockDuration(),
		DebugEchoCode:     cfg.OTP.DebugEcho,
	}, log)

	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/send-otp", authHandler.SendOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/login", authHandler.Login)
	auth.GET("/user", authHandler.CurrentUser, authMiddleware)
	auth.POST("/logout", authHandler.Logout)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
