package account

import (
	"fmt"
	"strings"
	"time"
)

// Account is the application-side identity record for a user authenticated
// by the external identity provider. externalID is the provider's stable
// subject identifier. tenantID is nil until onboarding assigns one.
type Account struct {
	id          uint
	externalID  string
	email       string
	displayName string
	legacyRole  string
	tenantID    *uint
	createdAt   time.Time
	updatedAt   time.Time
}

func NewAccount(externalID, email, displayName string) (*Account, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, fmt.Errorf("external ID is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required")
	}

	now := time.Now()
	return &Account{
		externalID:  externalID,
		email:       email,
		displayName: displayName,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructAccount(id uint, externalID, email, displayName, legacyRole string, tenantID *uint, createdAt, updatedAt time.Time) (*Account, error) {
	if id == 0 {
		return nil, fmt.Errorf("account ID cannot be zero")
	}

	return &Account{
		id:          id,
		externalID:  externalID,
		email:       email,
		displayName: displayName,
		legacyRole:  legacyRole,
		tenantID:    tenantID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (a *Account) ID() uint {
	return a.id
}

func (a *Account) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("account ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("account ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *Account) ExternalID() string {
	return a.externalID
}

func (a *Account) Email() string {
	return a.email
}

func (a *Account) DisplayName() string {
	return a.displayName
}

// LegacyRole is a coarse fallback display label only; it plays no part in
// permission resolution.
func (a *Account) LegacyRole() string {
	return a.legacyRole
}

func (a *Account) TenantID() *uint {
	return a.tenantID
}

func (a *Account) HasTenant() bool {
	return a.tenantID != nil
}

func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Account) UpdatedAt() time.Time {
	return a.updatedAt
}

func (a *Account) AssignTenant(tenantID uint) error {
	if tenantID == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	a.tenantID = &tenantID
	a.updatedAt = time.Now()
	return nil
}

func (a *Account) UpdateProfile(email, displayName string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	a.email = email
	a.displayName = displayName
	a.updatedAt = time.Now()
	return nil
}
