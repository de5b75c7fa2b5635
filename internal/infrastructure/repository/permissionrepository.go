package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learnhub/internal/domain/permission"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type PermissionRepositoryImpl struct {
	db *gorm.DB
}

func NewPermissionRepository(database *gorm.DB) permission.Repository {
	return &PermissionRepositoryImpl{db: database}
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, perm *permission.Permission) error {
	model := &models.PermissionModel{
		Name:         perm.Name(),
		Description:  perm.Description(),
		Category:     perm.Category(),
		IsActive:     perm.IsActive(),
		IsDeprecated: perm.IsDeprecated(),
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}

	return perm.SetID(model.ID)
}

func (r *PermissionRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Permission, error) {
	var model models.PermissionModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PermissionRepositoryImpl) GetByName(ctx context.Context, name string) (*permission.Permission, error) {
	var model models.PermissionModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by name: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PermissionRepositoryImpl) GetActiveByNames(ctx context.Context, names []string) ([]*permission.Permission, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var permModels []*models.PermissionModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.WithContext(ctx).
		Where("name IN ? AND is_active = ? AND is_deprecated = ?", names, true, false).
		Find(&permModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions by names: %w", err)
	}

	return r.toEntities(permModels)
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]*permission.Permission, error) {
	var permModels []*models.PermissionModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Order("category ASC, name ASC").Find(&permModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return r.toEntities(permModels)
}

func (r *PermissionRepositoryImpl) ListByRole(ctx context.Context, roleID uint) ([]*permission.Permission, error) {
	var permModels []*models.PermissionModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.WithContext(ctx).
		Table(constants.TablePermissions).
		Joins("INNER JOIN "+constants.TableTenantRolePermissions+" ON "+constants.TablePermissions+".id = "+constants.TableTenantRolePermissions+".permission_id").
		Where(constants.TableTenantRolePermissions+".role_id = ?", roleID).
		Find(&permModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}

	return r.toEntities(permModels)
}

func (r *PermissionRepositoryImpl) Update(ctx context.Context, perm *permission.Permission) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.PermissionModel{}).
		Where("id = ?", perm.ID()).
		Updates(map[string]interface{}{
			"description":   perm.Description(),
			"is_active":     perm.IsActive(),
			"is_deprecated": perm.IsDeprecated(),
			"updated_at":    perm.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("permission not found")
	}

	return nil
}

func (r *PermissionRepositoryImpl) toEntities(permModels []*models.PermissionModel) ([]*permission.Permission, error) {
	permissions := make([]*permission.Permission, 0, len(permModels))
	for _, model := range permModels {
		perm, err := r.toEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct permission: %w", err)
		}
		permissions = append(permissions, perm)
	}
	return permissions, nil
}

func (r *PermissionRepositoryImpl) toEntity(model *models.PermissionModel) (*permission.Permission, error) {
	return permission.ReconstructPermission(
		model.ID,
		model.Name,
		model.Description,
		model.Category,
		model.IsActive,
		model.IsDeprecated,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
