package data

import (
	"context"
	"database/sql"

	"github.com/reallifegames/localauth/internal/migrate"
)

// RunMigrations applies pending schema migrations and returns the versions it applied.
func RunMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	return migrate.Run(ctx, db)
}
