package accountsvc

import (
	"context"
	"fmt"

	"learnhub/internal/domain/account"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/auth"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

// Service owns the account lifecycle: federated upsert at login and the
// onboarding step that attaches an account to a tenant.
type Service struct {
	accountRepo account.Repository
	tenantRepo  tenant.Repository
	logger      logger.Interface
}

func NewService(accountRepo account.Repository, tenantRepo tenant.Repository) *Service {
	return &Service{
		accountRepo: accountRepo,
		tenantRepo:  tenantRepo,
		logger:      logger.NewLogger().With("component", "accountsvc"),
	}
}

// UpsertFromProvider creates or refreshes the local account row from the
// identity provider's userinfo payload. The provider's subject is the only
// join key; email and display name are mirrored on every login.
func (s *Service) UpsertFromProvider(ctx context.Context, info *auth.ProviderUserInfo) (*account.Account, error) {
	existing, err := s.accountRepo.GetByExternalID(ctx, info.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if existing != nil {
		if err := existing.UpdateProfile(info.Email, info.Name); err != nil {
			return nil, fmt.Errorf("failed to refresh profile: %w", err)
		}
		if err := s.accountRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	acct, err := account.NewAccount(info.Subject, info.Email, info.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid provider payload: %w", err)
	}

	if err := s.accountRepo.Create(ctx, acct); err != nil {
		if errors.IsDuplicateError(err) {
			// Concurrent first login; the other request's row wins.
			return s.accountRepo.GetByExternalID(ctx, info.Subject)
		}
		return nil, err
	}

	s.logger.Infow("account created from provider login",
		"account_id", acct.ID(),
		"external_id", acct.ExternalID())

	return acct, nil
}

// GetByID returns the account or a not-found error.
func (s *Service) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	acct, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, errors.NewNotFoundError("account not found")
	}
	return acct, nil
}

// JoinTenant completes onboarding by attaching the account to the tenant
// with the given slug. An account already in a tenant cannot switch here.
func (s *Service) JoinTenant(ctx context.Context, accountID uint, tenantSlug string) (*account.Account, error) {
	acct, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, errors.NewNotFoundError("account not found")
	}
	if acct.HasTenant() {
		return nil, errors.NewConflictError("account already belongs to a tenant")
	}

	tn, err := s.tenantRepo.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	if tn == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	if err := acct.AssignTenant(tn.ID()); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.accountRepo.Update(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.Infow("account joined tenant",
		"account_id", acct.ID(),
		"tenant_id", tn.ID())

	return acct, nil
}

// CreateTenant provisions a new tenant during onboarding and attaches the
// founding account to it.
func (s *Service) CreateTenant(ctx context.Context, accountID uint, name, slug string) (*tenant.Tenant, error) {
	acct, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, errors.NewNotFoundError("account not found")
	}
	if acct.HasTenant() {
		return nil, errors.NewConflictError("account already belongs to a tenant")
	}

	tn, err := tenant.NewTenant(name, slug)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.tenantRepo.Create(ctx, tn); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("tenant slug already taken")
		}
		return nil, err
	}

	if err := acct.AssignTenant(tn.ID()); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.accountRepo.Update(ctx, acct); err != nil {
		return nil, err
	}

	s.logger.Infow("tenant created",
		"tenant_id", tn.ID(),
		"slug", tn.Slug(),
		"founder_account_id", acct.ID())

	return tn, nil
}
