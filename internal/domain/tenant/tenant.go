package tenant

import (
	"fmt"
	"strings"
	"time"
)

// Tenant is an isolated organization. defaultRoleID points at its
// provisioned Guest role and stays nil until the first member triggers the
// lazy bootstrap.
type Tenant struct {
	id                 uint
	name               string
	slug               string
	defaultRoleID      *uint
	subscriptionTier   string
	subscriptionStatus string
	settings           map[string]any
	createdAt          time.Time
	updatedAt          time.Time
}

func NewTenant(name, slug string) (*Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("tenant slug is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("tenant name too long (max 100 characters)")
	}

	now := time.Now()
	return &Tenant{
		name:               name,
		slug:               strings.ToLower(slug),
		subscriptionTier:   "free",
		subscriptionStatus: "active",
		settings:           map[string]any{},
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func ReconstructTenant(id uint, name, slug string, defaultRoleID *uint, tier, status string, settings map[string]any, createdAt, updatedAt time.Time) (*Tenant, error) {
	if id == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}

	return &Tenant{
		id:                 id,
		name:               name,
		slug:               slug,
		defaultRoleID:      defaultRoleID,
		subscriptionTier:   tier,
		subscriptionStatus: status,
		settings:           settings,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (t *Tenant) ID() uint {
	return t.id
}

func (t *Tenant) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("tenant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Tenant) Name() string {
	return t.name
}

func (t *Tenant) Slug() string {
	return t.slug
}

func (t *Tenant) DefaultRoleID() *uint {
	return t.defaultRoleID
}

func (t *Tenant) SubscriptionTier() string {
	return t.subscriptionTier
}

func (t *Tenant) SubscriptionStatus() string {
	return t.subscriptionStatus
}

func (t *Tenant) Settings() map[string]any {
	return t.settings
}

func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

// SetDefaultRole records the provisioned Guest role. It is a one-time
// assignment; later calls with a different role are rejected so concurrent
// bootstraps cannot flip the pointer.
func (t *Tenant) SetDefaultRole(roleID uint) error {
	if roleID == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	if t.defaultRoleID != nil && *t.defaultRoleID != roleID {
		return fmt.Errorf("default role is already set")
	}
	t.defaultRoleID = &roleID
	t.updatedAt = time.Now()
	return nil
}
