package ports

// Package ports defines interfaces (hexagonal ports) for account storage and token revocation.
// Implementations live in internal/data and internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
)

// UserRepository persists local accounts.
type UserRepository interface {
	Create(ctx context.Context, user domainauth.User) error
	Get(ctx context.Context, username string) (domainauth.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	ListUsernames(ctx context.Context) ([]string, error)
	// UpdateFlags sets admin and active for an existing user. It returns a NotFound error
	// when no row matched.
	UpdateFlags(ctx context.Context, username string, admin, active bool) error
}

// DashRepository persists dashboard tiles as raw JSON strings ordered by id.
type DashRepository interface {
	List(ctx context.Context) ([]string, error)
	// Add stores value under the next free id and returns that id.
	Add(ctx context.Context, value string) (int, error)
}

// TokenDenylist records revoked token IDs until the token would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
