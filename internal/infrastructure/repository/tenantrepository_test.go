package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain/tenant"
	"learnhub/internal/shared/errors"
)

func TestTenantRepository_SetDefaultRoleIfUnset(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTenantRepository(database)
	ctx := context.Background()

	t.Run("first write wins", func(t *testing.T) {
		tn, err := tenant.NewTenant("Acme Learning", "acme")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tn))

		set, err := repo.SetDefaultRoleIfUnset(ctx, tn.ID(), 7)
		assert.NoError(t, err)
		assert.True(t, set)

		set, err = repo.SetDefaultRoleIfUnset(ctx, tn.ID(), 8)
		assert.NoError(t, err)
		assert.False(t, set)

		found, err := repo.GetByID(ctx, tn.ID())
		require.NoError(t, err)
		require.NotNil(t, found.DefaultRoleID())
		assert.Equal(t, uint(7), *found.DefaultRoleID())
	})

	t.Run("missing tenant reports no write", func(t *testing.T) {
		set, err := repo.SetDefaultRoleIfUnset(ctx, 9999, 7)
		assert.NoError(t, err)
		assert.False(t, set)
	})
}

func TestTenantRepository_GetBySlug(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTenantRepository(database)
	ctx := context.Background()

	tn, err := tenant.NewTenant("Globex Academy", "globex")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tn))

	t.Run("found by slug", func(t *testing.T) {
		found, err := repo.GetBySlug(ctx, "globex")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tn.ID(), found.ID())
	})

	t.Run("unknown slug returns nil without error", func(t *testing.T) {
		found, err := repo.GetBySlug(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestTenantRoleRepository_AliasUniqueness(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTenantRoleRepository(database)
	ctx := context.Background()

	t.Run("same alias in one tenant is rejected", func(t *testing.T) {
		first, err := tenant.NewRole(1, "Guest", "", 0, true)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := tenant.NewRole(1, "guest", "", 0, true)
		require.NoError(t, err)
		err = repo.Create(ctx, second)
		assert.Error(t, err)
		assert.True(t, errors.IsDuplicateError(err))
	})

	t.Run("same alias in another tenant is fine", func(t *testing.T) {
		other, err := tenant.NewRole(2, "Guest", "", 0, true)
		require.NoError(t, err)
		assert.NoError(t, repo.Create(ctx, other))
	})

	t.Run("lookup by alias is case-insensitive", func(t *testing.T) {
		found, err := repo.GetByAlias(ctx, 1, "GUEST")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Guest", found.Name())
	})
}
