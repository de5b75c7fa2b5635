package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type TenantRoleRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantRoleRepository(database *gorm.DB) tenant.RoleRepository {
	return &TenantRoleRepositoryImpl{db: database}
}

func (r *TenantRoleRepositoryImpl) Create(ctx context.Context, role *tenant.Role) error {
	model := &models.TenantRoleModel{
		TenantID:     role.TenantID(),
		Name:         role.Name(),
		Alias:        role.Alias(),
		Description:  role.Description(),
		IsActive:     role.IsActive(),
		SlotPosition: role.SlotPosition(),
		SlotExempt:   role.SlotExempt(),
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create tenant role: %w", err)
	}

	return role.SetID(model.ID)
}

func (r *TenantRoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*tenant.Role, error) {
	var model models.TenantRoleModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant role: %w", err)
	}

	return r.toEntity(&model)
}

func (r *TenantRoleRepositoryImpl) GetByAlias(ctx context.Context, tenantID uint, alias string) (*tenant.Role, error) {
	var model models.TenantRoleModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.WithContext(ctx).
		Where("tenant_id = ? AND alias = ?", tenantID, tenant.NormalizeAlias(alias)).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant role by alias: %w", err)
	}

	return r.toEntity(&model)
}

func (r *TenantRoleRepositoryImpl) List(ctx context.Context, tenantID uint, filter tenant.RoleFilter) ([]*tenant.Role, int64, error) {
	conn := db.GetTxFromContext(ctx, r.db)
	query := conn.WithContext(ctx).Model(&models.TenantRoleModel{}).Where("tenant_id = ?", tenantID)

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenant roles: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	offset := (page - 1) * pageSize
	query = query.Offset(offset).Limit(pageSize).Order("slot_position ASC, created_at ASC")

	var roleModels []*models.TenantRoleModel
	if err := query.Find(&roleModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tenant roles: %w", err)
	}

	roles := make([]*tenant.Role, 0, len(roleModels))
	for _, model := range roleModels {
		role, err := r.toEntity(model)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to reconstruct tenant role: %w", err)
		}
		roles = append(roles, role)
	}

	return roles, total, nil
}

func (r *TenantRoleRepositoryImpl) Update(ctx context.Context, role *tenant.Role) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.TenantRoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]interface{}{
			"name":          role.Name(),
			"alias":         role.Alias(),
			"description":   role.Description(),
			"is_active":     role.IsActive(),
			"slot_position": role.SlotPosition(),
			"updated_at":    role.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update tenant role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("role not found")
	}

	return nil
}

func (r *TenantRoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Delete(&models.TenantRoleModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete tenant role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("role not found")
	}
	return nil
}

func (r *TenantRoleRepositoryImpl) AssignPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	rolePermissions := make([]models.TenantRolePermissionModel, 0, len(permissionIDs))
	for _, permID := range permissionIDs {
		rolePermissions = append(rolePermissions, models.TenantRolePermissionModel{
			RoleID:       roleID,
			PermissionID: permID,
		})
	}

	// Re-binding an existing pair is a no-op, not an error.
	conn := db.GetTxFromContext(ctx, r.db)
	return conn.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rolePermissions).Error
}

func (r *TenantRoleRepositoryImpl) RemovePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	conn := db.GetTxFromContext(ctx, r.db)
	return conn.WithContext(ctx).
		Where("role_id = ? AND permission_id IN ?", roleID, permissionIDs).
		Delete(&models.TenantRolePermissionModel{}).Error
}

func (r *TenantRoleRepositoryImpl) CountNonExempt(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.WithContext(ctx).Model(&models.TenantRoleModel{}).
		Where("tenant_id = ? AND slot_exempt = ?", tenantID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tenant roles: %w", err)
	}
	return count, nil
}

func (r *TenantRoleRepositoryImpl) toEntity(model *models.TenantRoleModel) (*tenant.Role, error) {
	return tenant.ReconstructRole(
		model.ID,
		model.TenantID,
		model.Name,
		model.Alias,
		model.Description,
		model.IsActive,
		model.SlotPosition,
		model.SlotExempt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
