package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
	"github.com/reallifegames/localauth/internal/testutil"
)

func TestUserRepo_Integration(t *testing.T) {
	pool := testutil.SetupTestPool(t)
	repo := NewUserRepo(pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domainauth.User{Username: "bob", PasswordHash: "h1"}))
	require.NoError(t, repo.Create(ctx, domainauth.User{Username: "alice", PasswordHash: "h2", Admin: true, Active: true}))

	err := repo.Create(ctx, domainauth.User{Username: "alice", PasswordHash: "h3"})
	assert.True(t, apperrors.IsConflict(err), "duplicate username should conflict, got %v", err)

	names, err := repo.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names)

	require.NoError(t, repo.UpdateFlags(ctx, "bob", true, true))
	bob, err := repo.Get(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bob.Admin)
	assert.True(t, bob.Active)

	exists, err := repo.Exists(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Get(ctx, "carol")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDashRepo_Integration(t *testing.T) {
	pool := testutil.SetupTestPool(t)
	repo := NewDashRepo(pool)
	ctx := context.Background()

	first, err := repo.Add(ctx, `{"displayText":"A","link":"/a","cssClasses":""}`)
	require.NoError(t, err)
	second, err := repo.Add(ctx, `{"displayText":"B","link":"/b","cssClasses":""}`)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	values, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Contains(t, values[0], `"A"`)
	assert.Contains(t, values[1], `"B"`)
}
