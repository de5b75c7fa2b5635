package tenant

import "time"

// UserRoleAssignment binds an account to a role within a tenant. It is a
// plain value: the join row carries provenance but no behavior of its own.
type UserRoleAssignment struct {
	ID         uint
	AccountID  uint
	TenantID   uint
	RoleID     uint
	AssignedBy string
	AssignedAt time.Time
}
