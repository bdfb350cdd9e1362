package redis

// Package redis provides Redis-based adapters for localauth.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token IDs in Redis. Each entry expires when the
// token itself would have, so the keyspace never outgrows the live token set.
type TokenDenylist struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenDenylist creates a Redis-backed denylist using the "revoked:" key prefix.
func NewTokenDenylist(client redis.UniversalClient) *TokenDenylist {
	return NewTokenDenylistWithPrefix(client, "")
}

// NewTokenDenylistWithPrefix namespaces keys under prefix + "revoked:".
func NewTokenDenylistWithPrefix(client redis.UniversalClient, prefix string) *TokenDenylist {
	return &TokenDenylist{client: client, prefix: prefix + "revoked:"}
}

// Revoke marks tokenID as revoked until the given instant.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return errors.New("token ID cannot be empty")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		// Already expired; parsing will reject it anyway.
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
