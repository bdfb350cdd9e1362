package bootstrap

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/reallifegames/localauth/config"
	"github.com/reallifegames/localauth/internal/adapters/memory"
	redisadapter "github.com/reallifegames/localauth/internal/adapters/redis"
	"github.com/reallifegames/localauth/internal/ports"
	"github.com/reallifegames/localauth/internal/service"
)

const devSecretLen = 32

// TokenConfig contains configuration for the token service.
type TokenConfig struct {
	Auth  config.AuthConfig
	IsDev bool
	// RedisClient backs the revocation list when set; otherwise it lives in process memory.
	RedisClient    redis.UniversalClient
	RedisKeyPrefix string
	Logger         *slog.Logger
}

// BuildTokenService creates the JWT issuer and validator.
func BuildTokenService(cfg TokenConfig) (*service.TokenService, error) {
	secret, err := signingSecret(cfg.Auth.JWTSecret, cfg.IsDev, cfg.Logger)
	if err != nil {
		return nil, err
	}
	return service.NewTokenService(service.TokenServiceOptions{
		Secret:   secret,
		TTL:      cfg.Auth.TokenTTL,
		Denylist: buildDenylist(cfg.RedisClient, cfg.RedisKeyPrefix, cfg.Logger),
	})
}

// signingSecret returns the configured secret. Dev mode without one gets a random key,
// so tokens do not survive a restart.
func signingSecret(configured string, isDev bool, logger *slog.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	if !isDev {
		return nil, errors.New("jwt secret is required outside development mode")
	}
	secret := make([]byte, devSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate dev jwt secret: %w", err)
	}
	if logger != nil {
		logger.Warn("AUTH_JWT_SECRET not set; using a random per-process key (dev mode)")
	}
	return secret, nil
}

//nolint:ireturn // either adapter satisfies ports.TokenDenylist.
func buildDenylist(client redis.UniversalClient, prefix string, logger *slog.Logger) ports.TokenDenylist {
	if client == nil {
		if logger != nil {
			logger.Info("token revocations tracked in memory", "reason", "redis not configured")
		}
		return memory.NewTokenDenylist()
	}
	return redisadapter.NewTokenDenylistWithPrefix(client, prefix)
}
