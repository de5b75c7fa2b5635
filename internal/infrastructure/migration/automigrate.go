package migration

import (
	"learnhub/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.AccountModel{},
		&models.TenantModel{},
		&models.TenantRoleModel{},
		&models.PermissionModel{},
		&models.TenantRolePermissionModel{},
		&models.UserRoleModel{},
		&models.CourseModel{},
		&models.QuizModel{},
	}
}
