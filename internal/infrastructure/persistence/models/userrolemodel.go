package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

// UserRoleModel binds an account to a tenant role. The composite unique
// index makes lazy default-role provisioning race-safe: the losing writer
// of a concurrent first access gets a duplicate-key error instead of a
// second row.
type UserRoleModel struct {
	ID         uint   `gorm:"primarykey"`
	AccountID  uint   `gorm:"not null;uniqueIndex:idx_account_tenant_role"`
	TenantID   uint   `gorm:"not null;uniqueIndex:idx_account_tenant_role"`
	RoleID     uint   `gorm:"not null;uniqueIndex:idx_account_tenant_role"`
	AssignedBy string `gorm:"not null;size:100"`
	AssignedAt time.Time
}

func (UserRoleModel) TableName() string {
	return constants.TableUserRoles
}
