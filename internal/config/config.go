package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	CSRFKey     string
	UploadsDir  string
}

// Load reads configuration from the environment with development defaults.
// Precedence: explicit env var > .env file (loaded by the caller) > default.
func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "file:bienesraices.db"),
		JWTSecret:   getEnv("JWT_SECRET", "devjwtsecret"),
		JWTExpiry:   24 * time.Hour,
		CSRFKey:     getEnv("CSRF_KEY", "32-byte-long-auth-key-for-dev-00"),
		UploadsDir:  getEnv("UPLOADS_DIR", "public/uploads"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "devjwtsecret" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
