package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

type PermissionModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"uniqueIndex;not null;size:100"`
	Description  string `gorm:"type:text"`
	Category     string `gorm:"not null;size:50;index"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsDeprecated bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}
