package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type UserRoleRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRoleRepository(database *gorm.DB) tenant.UserRoleRepository {
	return &UserRoleRepositoryImpl{db: database}
}

func (r *UserRoleRepositoryImpl) Assign(ctx context.Context, assignment *tenant.UserRoleAssignment) error {
	model := &models.UserRoleModel{
		AccountID:  assignment.AccountID,
		TenantID:   assignment.TenantID,
		RoleID:     assignment.RoleID,
		AssignedBy: assignment.AssignedBy,
		AssignedAt: assignment.AssignedAt,
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	assignment.ID = model.ID
	return nil
}

func (r *UserRoleRepositoryImpl) Remove(ctx context.Context, accountID, tenantID, roleID uint) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).
		Where("account_id = ? AND tenant_id = ? AND role_id = ?", accountID, tenantID, roleID).
		Delete(&models.UserRoleModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove role assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("role assignment not found")
	}
	return nil
}

func (r *UserRoleRepositoryImpl) ExistsForAccount(ctx context.Context, accountID, tenantID uint) (bool, error) {
	var count int64
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.WithContext(ctx).Model(&models.UserRoleModel{}).
		Where("account_id = ? AND tenant_id = ?", accountID, tenantID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role assignments: %w", err)
	}
	return count > 0, nil
}

func (r *UserRoleRepositoryImpl) HasActiveRole(ctx context.Context, accountID, tenantID uint) (bool, error) {
	var count int64
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.WithContext(ctx).
		Table(constants.TableUserRoles+" AS ur").
		Joins("INNER JOIN "+constants.TableTenantRoles+" AS tr ON tr.id = ur.role_id").
		Where("ur.account_id = ? AND ur.tenant_id = ? AND tr.is_active = ?", accountID, tenantID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check active role: %w", err)
	}
	return count > 0, nil
}

func (r *UserRoleRepositoryImpl) ListByAccount(ctx context.Context, accountID uint, tenantID *uint) ([]*tenant.UserRoleAssignment, error) {
	conn := db.GetTxFromContext(ctx, r.db)
	query := conn.WithContext(ctx).Model(&models.UserRoleModel{}).Where("account_id = ?", accountID)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}

	var roleModels []*models.UserRoleModel
	if err := query.Order("assigned_at ASC").Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	assignments := make([]*tenant.UserRoleAssignment, 0, len(roleModels))
	for _, model := range roleModels {
		assignments = append(assignments, &tenant.UserRoleAssignment{
			ID:         model.ID,
			AccountID:  model.AccountID,
			TenantID:   model.TenantID,
			RoleID:     model.RoleID,
			AssignedBy: model.AssignedBy,
			AssignedAt: model.AssignedAt,
		})
	}

	return assignments, nil
}

// EffectivePermissionNames resolves the whole permission set in one join so
// role deactivation and permission deprecation take effect on the next
// request without any cache to invalidate.
func (r *UserRoleRepositoryImpl) EffectivePermissionNames(ctx context.Context, accountID uint, tenantID *uint) ([]string, error) {
	conn := db.GetTxFromContext(ctx, r.db)
	query := conn.WithContext(ctx).
		Table(constants.TableUserRoles+" AS ur").
		Joins("INNER JOIN "+constants.TableTenantRoles+" AS tr ON tr.id = ur.role_id").
		Joins("INNER JOIN "+constants.TableTenantRolePermissions+" AS trp ON trp.role_id = tr.id").
		Joins("INNER JOIN "+constants.TablePermissions+" AS p ON p.id = trp.permission_id").
		Where("ur.account_id = ?", accountID).
		Where("tr.is_active = ?", true).
		Where("p.is_active = ? AND p.is_deprecated = ?", true, false)

	if tenantID != nil {
		query = query.Where("ur.tenant_id = ?", *tenantID)
	}

	var names []string
	if err := query.Distinct().Pluck("p.name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve effective permissions: %w", err)
	}

	return names, nil
}
