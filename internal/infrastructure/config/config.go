package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// JWTExpirySeconds bounds bearer-token lifetime; expiry forces a full
	// re-authentication.
	JWTExpirySeconds int `env:"JWT_EXPIRY_SECONDS, default=86400"`

	OTP   OTPConfig
	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig
}

type OTPConfig struct {
	ExpiresMinutes      int `env:"OTP_EXPIRES_MINUTES,       default=5"`
	MaxPerHour          int `env:"OTP_MAX_PER_HOUR,          default=5"`
	MaxVerifyAttempts   int `env:"OTP_MAX_VERIFY_ATTEMPTS,   default=5"`
	LockDurationSeconds int `env:"OTP_LOCK_DURATION_SECONDS, default=300"`

	// DebugEcho returns the code in the send response for test automation.
	// Never enable in production.
	DebugEcho bool `env:"OTP_DEBUG_ECHO, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=billing_backend"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SeedConfig struct {
	SuperAdminPhone    string `env:"SEED_SUPERADMIN_PHONE"`
	SuperAdminPassword string `env:"SEED_SUPERADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

func (c *OTPConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiresMinutes) * time.Minute
}

func (c *OTPConfig) LockDuration() time.Duration {
	return time.Duration(c.LockDurationSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirySeconds) * time.Second
}
