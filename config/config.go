package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: token and password hashing configuration
//   - database.go: Postgres and Redis configuration
//   - http.go: HTTP server configuration
//   - console.go: admin console and dashboard configuration
type AppConfig struct {
	// IsDev controls development mode behavior (generated JWT secret, verbose errors).
	// Set DEV=true or APP_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is the minimum slog level (DEBUG, INFO, WARN, ERROR).
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	Auth AuthConfig `envPrefix:"AUTH_"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP    HTTPConfig
	Console ConsoleConfig `envPrefix:"CONSOLE_"`
	Dash    DashConfig    `envPrefix:"DASH_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Redis.Sanitize()
	c.Console.Sanitize()
	c.Dash.Sanitize()

	c.detectDevMode()
}

// Validate reports configuration that cannot be repaired by Sanitize.
func (c *AppConfig) Validate() error {
	if !c.IsDev && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("AUTH_JWT_SECRET is required outside development mode")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecretLen {
		return errors.New("AUTH_JWT_SECRET must be at least 32 bytes")
	}
	return nil
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// APP_ENV is checked as a fallback.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
