package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/reallifegames/localauth/internal/data/pgxutil"
	apperrors "github.com/reallifegames/localauth/internal/errors"
)

// DashRepo provides database operations for dashboard tiles.
type DashRepo struct {
	DB DBTX
}

// NewDashRepo creates a new DashRepo.
func NewDashRepo(db DBTX) *DashRepo {
	return &DashRepo{DB: db}
}

// List returns the stored tile descriptors ordered by id.
func (r *DashRepo) List(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("value").From("dash").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list dash: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// Add appends a tile under max(id)+1. The table lock serialises concurrent adds.
func (r *DashRepo) Add(ctx context.Context, value string) (int, error) {
	var id int
	err := pgxutil.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "LOCK TABLE dash IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return err
		}

		nextQuery, _, err := psql.Select("COALESCE(MAX(id), 0) + 1").From("dash").ToSql()
		if err != nil {
			return fmt.Errorf("build next dash id: %w", err)
		}
		if err := tx.QueryRow(ctx, nextQuery).Scan(&id); err != nil {
			return err
		}

		insert, args, err := psql.Insert("dash").Columns("id", "value").Values(id, value).ToSql()
		if err != nil {
			return fmt.Errorf("build insert dash: %w", err)
		}
		_, err = tx.Exec(ctx, insert, args...)
		return err
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return id, nil
}
