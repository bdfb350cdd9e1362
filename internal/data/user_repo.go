package data

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
)

var userColumns = []string{"username", "password", "admin", "active"}

// UserRepo provides database operations for local accounts.
type UserRepo struct {
	DB DBTX
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{DB: db}
}

// Create inserts a new user. A duplicate username yields a Conflict error.
func (r *UserRepo) Create(ctx context.Context, user domainauth.User) error {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.Username, user.PasswordHash, user.Admin, user.Active).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}
	if _, err := r.DB.Exec(ctx, query, args...); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// Get retrieves a user including its password hash.
func (r *UserRepo) Get(ctx context.Context, username string) (domainauth.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return domainauth.User{}, fmt.Errorf("build select user: %w", err)
	}

	var u domainauth.User
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&u.Username, &u.PasswordHash, &u.Admin, &u.Active); err != nil {
		return domainauth.User{}, apperrors.MapDBError(err)
	}
	return u, nil
}

// Exists reports whether a user with the given name is stored.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("users").
		Where(sq.Eq{"username": username}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build user exists: %w", err)
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, apperrors.MapDBError(err)
	}
	return exists, nil
}

// ListUsernames returns every username in lexical order.
func (r *UserRepo) ListUsernames(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("username").From("users").OrderBy("username ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// UpdateFlags sets the admin and active flags of an existing user.
func (r *UserRepo) UpdateFlags(ctx context.Context, username string, admin, active bool) error {
	query, args, err := psql.Update("users").
		Set("admin", admin).
		Set("active", active).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user: %w", err)
	}

	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("user %q not found", username)
	}
	return nil
}
