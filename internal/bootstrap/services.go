package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/reallifegames/localauth/config"
	"github.com/reallifegames/localauth/internal/data"
	"github.com/reallifegames/localauth/internal/service"
)

// ServiceDeps contains the infrastructure services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          data.DBTX
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Users  *service.UserService
	Dash   *service.DashService
	Tokens *service.TokenService
	Auth   *service.AuthService
}

// NewServices wires repositories into services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	tokens, err := BuildTokenService(TokenConfig{
		Auth:           cfg.Auth,
		IsDev:          cfg.IsDev,
		RedisClient:    deps.RedisClient,
		RedisKeyPrefix: cfg.Redis.KeyPrefix,
		Logger:         logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	users := service.NewUserService(service.UserServiceOptions{
		Repo:   data.NewUserRepo(deps.DB),
		Hasher: service.NewPasswordHasher(cfg.Auth.BcryptCost),
		Logger: logger,
	})
	dash := service.NewDashService(service.DashServiceOptions{
		Repo:     data.NewDashRepo(deps.DB),
		CacheTTL: cfg.Dash.CacheTTL,
		Logger:   logger,
	})

	return ServiceContainer{
		Users:  users,
		Dash:   dash,
		Tokens: tokens,
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Users:  users,
			Tokens: tokens,
			Logger: logger,
		}),
	}, nil
}
