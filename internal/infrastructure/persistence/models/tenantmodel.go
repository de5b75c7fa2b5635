package models

import (
	"time"

	"gorm.io/datatypes"

	"learnhub/internal/shared/constants"
)

type TenantModel struct {
	ID                 uint   `gorm:"primarykey"`
	Name               string `gorm:"not null;size:100"`
	Slug               string `gorm:"uniqueIndex;not null;size:100"`
	DefaultRoleID      *uint
	SubscriptionTier   string         `gorm:"not null;default:free;size:50"`
	SubscriptionStatus string         `gorm:"not null;default:active;size:20"`
	Settings           datatypes.JSON `gorm:"type:json"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (TenantModel) TableName() string {
	return constants.TableTenants
}
