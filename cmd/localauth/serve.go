package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/reallifegames/localauth/internal/bootstrap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and admin console (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if a.cfg.Postgres.RunMigrationsOnStart {
		if _, err := bootstrap.RunMigrations(ctx, pool, a.logger); err != nil {
			return err
		}
	}

	var redisClient redis.UniversalClient
	if a.cfg.Redis.Enabled() {
		redisClient, err = bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
			RedisConfig: a.cfg.Redis,
			Logger:      a.logger,
		})
		if err != nil {
			return err
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				a.logger.Warn("close redis client", "error", cerr)
			}
		}()
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &a.cfg,
		DB:          pool,
		RedisClient: redisClient,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:   &a.cfg,
		Services: services,
		Logger:   a.logger,
	})
}
