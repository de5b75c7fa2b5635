package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

type TenantRolePermissionModel struct {
	ID           uint `gorm:"primarykey"`
	RoleID       uint `gorm:"not null;uniqueIndex:idx_role_permission"`
	PermissionID uint `gorm:"not null;uniqueIndex:idx_role_permission"`
	CreatedAt    time.Time
}

func (TenantRolePermissionModel) TableName() string {
	return constants.TableTenantRolePermissions
}
