package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain/tenant"
)

type stubUserRoleRepo struct {
	tenant.UserRoleRepository
	names []string
	err   error
}

func (s *stubUserRoleRepo) EffectivePermissionNames(ctx context.Context, accountID uint, tenantID *uint) ([]string, error) {
	return s.names, s.err
}

func TestAggregator_GetUserPermissions(t *testing.T) {
	agg := NewAggregator(&stubUserRoleRepo{names: []string{"courses.read", "quizzes.read", "courses.read"}})

	set, err := agg.GetUserPermissions(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Len(t, set, 2)
	assert.Contains(t, set, "courses.read")
	assert.Contains(t, set, "quizzes.read")
}

func TestAggregator_HasPermission(t *testing.T) {
	agg := NewAggregator(&stubUserRoleRepo{names: []string{"courses.read"}})

	ok, err := agg.HasPermission(context.Background(), 1, nil, "courses.read")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = agg.HasPermission(context.Background(), 1, nil, "courses.update")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAggregator_HasAnyPermission(t *testing.T) {
	agg := NewAggregator(&stubUserRoleRepo{names: []string{"quizzes.read"}})

	ok, err := agg.HasAnyPermission(context.Background(), 1, nil, []string{"courses.update", "quizzes.read"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = agg.HasAnyPermission(context.Background(), 1, nil, []string{"courses.update", "courses.delete"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = agg.HasAnyPermission(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAggregator_HasAllPermissions(t *testing.T) {
	agg := NewAggregator(&stubUserRoleRepo{names: []string{"courses.read", "courses.update"}})

	ok, missing, err := agg.HasAllPermissions(context.Background(), 1, nil, []string{"courses.read", "courses.update"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, missing)

	ok, missing, err = agg.HasAllPermissions(context.Background(), 1, nil, []string{"courses.read", "courses.delete", "roles.create"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"courses.delete", "roles.create"}, missing)
}

func TestAggregator_HasAllPermissions_EmptyList(t *testing.T) {
	agg := NewAggregator(&stubUserRoleRepo{})

	ok, missing, err := agg.HasAllPermissions(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, missing)
}
