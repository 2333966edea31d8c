package config

import (
	"errors"
	"os"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port   string
	AppEnv string // "development" or "production"; controls the Secure cookie flag

	// Postgres
	DatabaseURL string

	// Redis
	RedisAddr     string
	RedisPassword string

	// Token signing. The two secrets must be distinct: access tokens must
	// never verify against the refresh secret or vice versa.
	AccessTokenSecret  string
	RefreshTokenSecret string

	// OAuth2 — Google. Optional; the /api/auth/google routes are only
	// registered when all three are set.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// S3-compatible object storage for product images. Optional; product
	// creation rejects image payloads when unset.
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Frontend origin used for post-OAuth redirects.
	ClientURL string
}

// Load reads configuration from environment variables with sensible defaults.
// Secrets and store addresses have no defaults and are validated here so the
// process fails at startup rather than on the first request.
func Load() (Config, error) {
	cfg := Config{
		Port:   envOrDefault("PORT", "5000"),
		AppEnv: envOrDefault("APP_ENV", "development"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     envOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3Bucket:    envOrDefault("S3_BUCKET", "products"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		ClientURL: envOrDefault("CLIENT_URL", "http://localhost:5173"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return Config{}, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return Config{}, errors.New("access and refresh token secrets must differ")
	}

	return cfg, nil
}

// Production reports whether the app runs with production hardening
// (Secure cookies).
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// GoogleEnabled reports whether the Google OAuth routes should be mounted.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// S3Enabled reports whether image storage is configured.
func (c Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
