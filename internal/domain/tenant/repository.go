package tenant

import "context"

// RoleFilter narrows role listings.
type RoleFilter struct {
	Name     string
	IsActive *bool
	Page     int
	PageSize int
}

// Repository is the persistence contract for tenants.
type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id uint) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	// SetDefaultRoleIfUnset writes default_role_id only when it is still
	// NULL, so concurrent bootstraps cannot flip an already-set pointer.
	// Returns true when this call performed the write.
	SetDefaultRoleIfUnset(ctx context.Context, tenantID, roleID uint) (bool, error)
}

// RoleRepository is the persistence contract for tenant-scoped roles and
// their permission bindings.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	// GetByAlias matches the normalized alias within one tenant, which is
	// how the Guest role is found case-insensitively.
	GetByAlias(ctx context.Context, tenantID uint, alias string) (*Role, error)
	List(ctx context.Context, tenantID uint, filter RoleFilter) ([]*Role, int64, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uint) error
	AssignPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	RemovePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	// CountNonExempt counts roles that occupy a billing slot in a tenant.
	CountNonExempt(ctx context.Context, tenantID uint) (int64, error)
}

// UserRoleRepository is the persistence contract for role assignments and
// the effective-permission resolution query.
type UserRoleRepository interface {
	Assign(ctx context.Context, assignment *UserRoleAssignment) error
	Remove(ctx context.Context, accountID, tenantID, roleID uint) error
	ExistsForAccount(ctx context.Context, accountID, tenantID uint) (bool, error)
	// HasActiveRole reports whether the account holds at least one
	// assignment whose role is active in the tenant; this is the
	// tenant-membership check.
	HasActiveRole(ctx context.Context, accountID, tenantID uint) (bool, error)
	ListByAccount(ctx context.Context, accountID uint, tenantID *uint) ([]*UserRoleAssignment, error)
	// EffectivePermissionNames unions permission names across all of the
	// account's assignments, skipping inactive roles and inactive or
	// deprecated permissions. tenantID nil means across all tenants.
	EffectivePermissionNames(ctx context.Context, accountID uint, tenantID *uint) ([]string, error)
}
