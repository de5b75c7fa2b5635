package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

type QuizModel struct {
	ID           uint   `gorm:"primarykey"`
	Title        string `gorm:"not null;size:200"`
	Description  string `gorm:"type:text"`
	TenantID     *uint  `gorm:"index"`
	IsShared     bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:true"`
	TimeLimitSec int    `gorm:"not null;default:0"`
	CreatedBy    uint   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (QuizModel) TableName() string {
	return constants.TableQuizzes
}
