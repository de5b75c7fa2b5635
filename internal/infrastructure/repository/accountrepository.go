package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learnhub/internal/domain/account"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type AccountRepositoryImpl struct {
	db *gorm.DB
}

func NewAccountRepository(database *gorm.DB) account.Repository {
	return &AccountRepositoryImpl{db: database}
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, acct *account.Account) error {
	model := &models.AccountModel{
		ExternalID:  acct.ExternalID(),
		Email:       acct.Email(),
		DisplayName: acct.DisplayName(),
		LegacyRole:  acct.LegacyRole(),
		TenantID:    acct.TenantID(),
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return acct.SetID(model.ID)
}

func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	var model models.AccountModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.toEntity(&model)
}

func (r *AccountRepositoryImpl) GetByExternalID(ctx context.Context, externalID string) (*account.Account, error) {
	var model models.AccountModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Where("external_id = ?", externalID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by external ID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *AccountRepositoryImpl) Update(ctx context.Context, acct *account.Account) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.AccountModel{}).
		Where("id = ?", acct.ID()).
		Updates(map[string]interface{}{
			"email":        acct.Email(),
			"display_name": acct.DisplayName(),
			"tenant_id":    acct.TenantID(),
			"updated_at":   acct.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("account not found")
	}

	return nil
}

func (r *AccountRepositoryImpl) toEntity(model *models.AccountModel) (*account.Account, error) {
	return account.ReconstructAccount(
		model.ID,
		model.ExternalID,
		model.Email,
		model.DisplayName,
		model.LegacyRole,
		model.TenantID,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
