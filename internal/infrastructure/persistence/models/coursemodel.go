package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

// CourseModel rows with a nil TenantID belong to the platform catalog;
// shared rows stay visible to every tenant.
type CourseModel struct {
	ID          uint   `gorm:"primarykey"`
	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"`
	TenantID    *uint  `gorm:"index"`
	IsShared    bool   `gorm:"not null;default:false"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedBy   uint   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CourseModel) TableName() string {
	return constants.TableCourses
}
