package permission

import (
	"fmt"
	"strings"
	"time"
)

// Permission is a global catalog entry identified by a dotted name such as
// "courses.update". Inactive or deprecated entries are never granted even
// while still attached to roles.
type Permission struct {
	id           uint
	name         string
	description  string
	category     string
	isActive     bool
	isDeprecated bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewPermission(name, description string) (*Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("permission name is required")
	}
	category, _, found := strings.Cut(name, ".")
	if !found || category == "" {
		return nil, fmt.Errorf("permission name must have the form resource.action")
	}

	now := time.Now()
	return &Permission{
		name:        name,
		description: description,
		category:    category,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPermission(id uint, name, description, category string, isActive, isDeprecated bool, createdAt, updatedAt time.Time) (*Permission, error) {
	if id == 0 {
		return nil, fmt.Errorf("permission ID cannot be zero")
	}

	return &Permission{
		id:           id,
		name:         name,
		description:  description,
		category:     category,
		isActive:     isActive,
		isDeprecated: isDeprecated,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (p *Permission) ID() uint {
	return p.id
}

func (p *Permission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Permission) Name() string {
	return p.name
}

func (p *Permission) Description() string {
	return p.description
}

func (p *Permission) Category() string {
	return p.category
}

func (p *Permission) IsActive() bool {
	return p.isActive
}

func (p *Permission) IsDeprecated() bool {
	return p.isDeprecated
}

// Grantable reports whether the permission currently takes effect when
// attached to an active role.
func (p *Permission) Grantable() bool {
	return p.isActive && !p.isDeprecated
}

func (p *Permission) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Permission) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Permission) UpdateDescription(description string) {
	p.description = description
	p.updatedAt = time.Now()
}

// Deprecate removes the permission from every role's effective grant
// immediately without touching any role-permission row.
func (p *Permission) Deprecate() {
	if p.isDeprecated {
		return
	}
	p.isDeprecated = true
	p.updatedAt = time.Now()
}

func (p *Permission) Deactivate() {
	if !p.isActive {
		return
	}
	p.isActive = false
	p.updatedAt = time.Now()
}
