package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallifegames/localauth/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestTokenDenylist_RevokeAndCheck(t *testing.T) {
	client := setupTestRedis(t)

	list := NewTokenDenylistWithPrefix(client, "test:")
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "test:revoked:jti-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestTokenDenylist_ExpiredTokenIsNotStored(t *testing.T) {
	client := setupTestRedis(t)

	list := NewTokenDenylist(client)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-old", time.Now().Add(-time.Second)))

	n, err := client.Exists(ctx, "revoked:jti-old").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTokenDenylist_EmptyID(t *testing.T) {
	list := NewTokenDenylist(nil)

	err := list.Revoke(context.Background(), "", time.Now().Add(time.Minute))
	assert.Error(t, err)

	revoked, err := list.IsRevoked(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, revoked)
}
