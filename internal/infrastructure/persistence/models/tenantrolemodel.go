package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

// TenantRoleModel carries a normalized alias column so Guest-role lookup is
// case-insensitive and the (tenant_id, alias) unique index collapses
// concurrent bootstrap attempts into a single row.
type TenantRoleModel struct {
	ID           uint   `gorm:"primarykey"`
	TenantID     uint   `gorm:"not null;uniqueIndex:idx_tenant_role_alias"`
	Name         string `gorm:"not null;size:50"`
	Alias        string `gorm:"not null;size:50;uniqueIndex:idx_tenant_role_alias"`
	Description  string `gorm:"type:text"`
	IsActive     bool   `gorm:"not null;default:true"`
	SlotPosition int    `gorm:"not null;default:0"`
	SlotExempt   bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TenantRoleModel) TableName() string {
	return constants.TableTenantRoles
}
