package authz

import (
	"context"
	"fmt"

	"learnhub/internal/application/provisioning"
	"learnhub/internal/domain/account"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

// Identity is the authenticated caller as established by the HTTP auth
// middleware. A nil Identity or empty ExternalID means unauthenticated.
type Identity struct {
	AccountID  uint
	ExternalID string
}

func (i *Identity) Authenticated() bool {
	return i != nil && i.ExternalID != ""
}

// TenantContext is the resolved tenant scope for one request.
type TenantContext struct {
	AccountID uint
	TenantID  uint
	Account   *account.Account
	Tenant    *tenant.Tenant
}

// Resolver maps an authenticated identity to its tenant context, lazily
// provisioning the default role on the way through.
type Resolver struct {
	accountRepo account.Repository
	tenantRepo  tenant.Repository
	provisioner *provisioning.Provisioner
	logger      logger.Interface
}

func NewResolver(
	accountRepo account.Repository,
	tenantRepo tenant.Repository,
	provisioner *provisioning.Provisioner,
) *Resolver {
	return &Resolver{
		accountRepo: accountRepo,
		tenantRepo:  tenantRepo,
		provisioner: provisioner,
		logger:      logger.NewLogger().With("component", "authz.resolver"),
	}
}

// ResolveTenantContext returns the caller's tenant scope. An account with
// no tenant gets a NoTenantAssigned error carrying the onboarding redirect;
// that is an expected state for new signups, not a failure.
func (r *Resolver) ResolveTenantContext(ctx context.Context, identity *Identity) (*TenantContext, *errors.AppError) {
	if !identity.Authenticated() {
		return nil, errors.NewUnauthenticatedError()
	}

	acct, err := r.loadAccount(ctx, identity)
	if err != nil {
		return nil, errors.NewInternalError("failed to load account", err.Error())
	}
	if acct == nil {
		return nil, errors.NewNotFoundError(constants.ErrMsgAccountNotFound)
	}

	if !acct.HasTenant() {
		return nil, errors.NewNoTenantAssignedError(constants.OnboardingPath)
	}
	tenantID := *acct.TenantID()

	if _, err := r.provisioner.EnsureUserHasDefaultRole(ctx, acct.ID(), tenantID); err != nil {
		return nil, errors.NewInternalError("failed to provision default role", err.Error())
	}

	tn, err := r.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load tenant", err.Error())
	}
	if tn == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	return &TenantContext{
		AccountID: acct.ID(),
		TenantID:  tenantID,
		Account:   acct,
		Tenant:    tn,
	}, nil
}

// ResolveTenantID is the short-circuit variant used where only the scope is
// needed: nil without error when the account has no tenant.
func (r *Resolver) ResolveTenantID(ctx context.Context, identity *Identity) (*uint, *errors.AppError) {
	if !identity.Authenticated() {
		return nil, errors.NewUnauthenticatedError()
	}

	acct, err := r.loadAccount(ctx, identity)
	if err != nil {
		return nil, errors.NewInternalError("failed to load account", err.Error())
	}
	if acct == nil {
		return nil, errors.NewNotFoundError(constants.ErrMsgAccountNotFound)
	}

	return acct.TenantID(), nil
}

func (r *Resolver) loadAccount(ctx context.Context, identity *Identity) (*account.Account, error) {
	if identity.AccountID != 0 {
		acct, err := r.accountRepo.GetByID(ctx, identity.AccountID)
		if err != nil {
			return nil, fmt.Errorf("lookup by id: %w", err)
		}
		if acct != nil {
			return acct, nil
		}
	}
	return r.accountRepo.GetByExternalID(ctx, identity.ExternalID)
}
