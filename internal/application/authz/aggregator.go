package authz

import (
	"context"
	"fmt"

	"learnhub/internal/domain/tenant"
)

// Aggregator resolves an account's effective permission set. Every call
// recomputes from the database, so role edits, deactivations, and
// permission deprecations take effect on the next request with no cache to
// invalidate.
type Aggregator struct {
	userRoleRepo tenant.UserRoleRepository
}

func NewAggregator(userRoleRepo tenant.UserRoleRepository) *Aggregator {
	return &Aggregator{userRoleRepo: userRoleRepo}
}

// GetUserPermissions returns the union of permission names granted by the
// account's active roles, excluding inactive and deprecated permissions.
// tenantID nil means across all of the account's tenants.
func (a *Aggregator) GetUserPermissions(ctx context.Context, accountID uint, tenantID *uint) (map[string]struct{}, error) {
	names, err := a.userRoleRepo.EffectivePermissionNames(ctx, accountID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate permissions: %w", err)
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}

func (a *Aggregator) HasPermission(ctx context.Context, accountID uint, tenantID *uint, name string) (bool, error) {
	set, err := a.GetUserPermissions(ctx, accountID, tenantID)
	if err != nil {
		return false, err
	}
	_, ok := set[name]
	return ok, nil
}

func (a *Aggregator) HasAnyPermission(ctx context.Context, accountID uint, tenantID *uint, names []string) (bool, error) {
	set, err := a.GetUserPermissions(ctx, accountID, tenantID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if _, ok := set[name]; ok {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions reports whether every name is held and returns the
// missing ones otherwise.
func (a *Aggregator) HasAllPermissions(ctx context.Context, accountID uint, tenantID *uint, names []string) (bool, []string, error) {
	set, err := a.GetUserPermissions(ctx, accountID, tenantID)
	if err != nil {
		return false, nil, err
	}

	var missing []string
	for _, name := range names {
		if _, ok := set[name]; !ok {
			missing = append(missing, name)
		}
	}
	return len(missing) == 0, missing, nil
}
