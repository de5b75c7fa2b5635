package tenant

import (
	"fmt"
	"strings"
	"time"
)

// Role is a named, tenant-scoped bundle of permissions. alias is the
// normalized (lower-case) form of the name used for case-insensitive
// uniqueness within a tenant. slotExempt roles, like the built-in Guest
// role, never count toward the billing plan's role-slot limit.
type Role struct {
	id           uint
	tenantID     uint
	name         string
	alias        string
	description  string
	isActive     bool
	slotPosition int
	slotExempt   bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NormalizeAlias derives the uniqueness alias from a role name.
func NormalizeAlias(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func NewRole(tenantID uint, name, description string, slotPosition int, slotExempt bool) (*Role, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}
	if slotPosition < 0 {
		return nil, fmt.Errorf("slot position cannot be negative")
	}

	now := time.Now()
	return &Role{
		tenantID:     tenantID,
		name:         name,
		alias:        NormalizeAlias(name),
		description:  description,
		isActive:     true,
		slotPosition: slotPosition,
		slotExempt:   slotExempt,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructRole(id, tenantID uint, name, alias, description string, isActive bool, slotPosition int, slotExempt bool, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:           id,
		tenantID:     tenantID,
		name:         name,
		alias:        alias,
		description:  description,
		isActive:     isActive,
		slotPosition: slotPosition,
		slotExempt:   slotExempt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) TenantID() uint {
	return r.tenantID
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Alias() string {
	return r.alias
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) IsActive() bool {
	return r.isActive
}

func (r *Role) SlotPosition() int {
	return r.slotPosition
}

func (r *Role) SlotExempt() bool {
	return r.slotExempt
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Role) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if len(name) > 50 {
		return fmt.Errorf("role name too long (max 50 characters)")
	}
	r.name = name
	r.alias = NormalizeAlias(name)
	r.updatedAt = time.Now()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}

func (r *Role) Activate() {
	if r.isActive {
		return
	}
	r.isActive = true
	r.updatedAt = time.Now()
}

// Deactivate disables the role. Every permission it grants stops taking
// effect immediately; the role-permission and user-role rows stay in place.
func (r *Role) Deactivate() error {
	if r.slotExempt && r.alias == "guest" {
		return fmt.Errorf("cannot deactivate the built-in guest role")
	}
	if !r.isActive {
		return nil
	}
	r.isActive = false
	r.updatedAt = time.Now()
	return nil
}
