package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/reallifegames/localauth/config"
	"github.com/reallifegames/localauth/internal/bootstrap"
)

const defaultMigrationTimeout = 5 * time.Minute

// app is the state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	cfg    config.AppConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "localauth",
		Short: "Local username/password authentication service",
		Long:  "localauth issues JWT session tokens for local accounts and serves an htmx admin console.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newUserCmd(a),
		newDashCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = bootstrap.InitLogger(cfg.LogLevel)
	return nil
}

// connect opens the Postgres pool. Callers close it.
func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if a.logger == nil {
		return nil, errors.New("configuration not loaded")
	}
	return bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: a.cfg.Postgres,
		Logger:   a.logger,
	})
}
