package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

type AccountModel struct {
	ID          uint   `gorm:"primarykey"`
	ExternalID  string `gorm:"uniqueIndex;not null;size:191"`
	Email       string `gorm:"not null;size:255;index"`
	DisplayName string `gorm:"size:100"`
	LegacyRole  string `gorm:"size:50"`
	TenantID    *uint  `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AccountModel) TableName() string {
	return constants.TableAccounts
}
