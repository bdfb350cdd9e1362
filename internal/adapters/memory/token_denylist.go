// Package memory provides in-process adapters used when no Redis is configured.
package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// TokenDenylist keeps revoked token IDs in a go-cache with per-entry expiry.
// Revocations are lost on restart and are not shared between replicas.
type TokenDenylist struct {
	cache *gocache.Cache
}

// NewTokenDenylist creates an empty in-memory denylist.
func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Revoke marks tokenID as revoked until the given instant.
func (d *TokenDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return errors.New("token ID cannot be empty")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	d.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, found := d.cache.Get(tokenID)
	return found, nil
}
