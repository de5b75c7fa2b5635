package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type TenantRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantRepository(database *gorm.DB) tenant.Repository {
	return &TenantRepositoryImpl{db: database}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, t *tenant.Tenant) error {
	settings, err := json.Marshal(t.Settings())
	if err != nil {
		return fmt.Errorf("failed to marshal tenant settings: %w", err)
	}

	model := &models.TenantModel{
		Name:               t.Name(),
		Slug:               t.Slug(),
		DefaultRoleID:      t.DefaultRoleID(),
		SubscriptionTier:   t.SubscriptionTier(),
		SubscriptionStatus: t.SubscriptionStatus(),
		Settings:           settings,
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	return t.SetID(model.ID)
}

func (r *TenantRepositoryImpl) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	var model models.TenantModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return r.toEntity(&model)
}

func (r *TenantRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	var model models.TenantModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant by slug: %w", err)
	}

	return r.toEntity(&model)
}

func (r *TenantRepositoryImpl) Update(ctx context.Context, t *tenant.Tenant) error {
	settings, err := json.Marshal(t.Settings())
	if err != nil {
		return fmt.Errorf("failed to marshal tenant settings: %w", err)
	}

	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", t.ID()).
		Updates(map[string]interface{}{
			"name":                t.Name(),
			"default_role_id":     t.DefaultRoleID(),
			"subscription_tier":   t.SubscriptionTier(),
			"subscription_status": t.SubscriptionStatus(),
			"settings":            settings,
			"updated_at":          t.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("tenant not found")
	}

	return nil
}

// SetDefaultRoleIfUnset is a conditional write: the WHERE clause only
// matches while default_role_id is NULL, so the first bootstrap to commit
// wins and every later one observes RowsAffected == 0.
func (r *TenantRepositoryImpl) SetDefaultRoleIfUnset(ctx context.Context, tenantID, roleID uint) (bool, error) {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ? AND default_role_id IS NULL", tenantID).
		Update("default_role_id", roleID)

	if result.Error != nil {
		return false, fmt.Errorf("failed to set tenant default role: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *TenantRepositoryImpl) toEntity(model *models.TenantModel) (*tenant.Tenant, error) {
	var settings map[string]any
	if len(model.Settings) > 0 {
		if err := json.Unmarshal(model.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tenant settings: %w", err)
		}
	}

	return tenant.ReconstructTenant(
		model.ID,
		model.Name,
		model.Slug,
		model.DefaultRoleID,
		model.SubscriptionTier,
		model.SubscriptionStatus,
		settings,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
