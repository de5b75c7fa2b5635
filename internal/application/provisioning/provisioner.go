package provisioning

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

// Provisioner lazily creates the per-tenant Guest role and hands it to
// accounts that reach a tenant with no role assignments. Both steps are
// written to survive concurrent first requests: unique indexes turn the
// losing writer's insert into a duplicate-key error that is recovered by
// re-reading.
type Provisioner struct {
	tenantRepo     tenant.Repository
	roleRepo       tenant.RoleRepository
	userRoleRepo   tenant.UserRoleRepository
	permissionRepo permission.Repository
	txManager      *db.TransactionManager
	logger         logger.Interface
}

func NewProvisioner(
	tenantRepo tenant.Repository,
	roleRepo tenant.RoleRepository,
	userRoleRepo tenant.UserRoleRepository,
	permissionRepo permission.Repository,
	txManager *db.TransactionManager,
) *Provisioner {
	return &Provisioner{
		tenantRepo:     tenantRepo,
		roleRepo:       roleRepo,
		userRoleRepo:   userRoleRepo,
		permissionRepo: permissionRepo,
		txManager:      txManager,
		logger:         logger.NewLogger().With("component", "provisioning"),
	}
}

// EnsureTenantHasGuestRole returns the tenant's default role, creating the
// Guest role and binding its view-only permissions when none exists yet.
func (p *Provisioner) EnsureTenantHasGuestRole(ctx context.Context, tenantID uint) (*tenant.Role, error) {
	tn, err := p.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if tn == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	if tn.DefaultRoleID() != nil {
		role, err := p.roleRepo.GetByID(ctx, *tn.DefaultRoleID())
		if err != nil {
			return nil, fmt.Errorf("failed to load default role: %w", err)
		}
		if role != nil {
			return role, nil
		}
		// The pointer is stale; fall through and look the role up by alias.
	}

	existing, err := p.roleRepo.GetByAlias(ctx, tenantID, constants.GuestRoleAlias)
	if err != nil {
		return nil, fmt.Errorf("failed to look up guest role: %w", err)
	}
	if existing != nil {
		if _, err := p.tenantRepo.SetDefaultRoleIfUnset(ctx, tenantID, existing.ID()); err != nil {
			return nil, err
		}
		return existing, nil
	}

	var created *tenant.Role
	err = p.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		role, err := p.createGuestRole(txCtx, tenantID)
		if err != nil {
			return err
		}
		created = role
		return nil
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			// Another request created the role between our lookup and
			// insert. Re-read and use theirs.
			p.logger.Infow("guest role bootstrap lost the race, re-reading",
				"tenant_id", tenantID)
			return p.reReadGuestRole(ctx, tenantID)
		}
		return nil, err
	}

	p.logger.Infow("guest role provisioned",
		"tenant_id", tenantID,
		"role_id", created.ID())

	return created, nil
}

// EnsureUserHasDefaultRole assigns the tenant's default role to an account that
// has no assignments in the tenant. It returns true when an assignment was
// created by this call.
func (p *Provisioner) EnsureUserHasDefaultRole(ctx context.Context, accountID, tenantID uint) (bool, error) {
	exists, err := p.userRoleRepo.ExistsForAccount(ctx, accountID, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to check role assignments: %w", err)
	}
	if exists {
		return false, nil
	}

	role, err := p.EnsureTenantHasGuestRole(ctx, tenantID)
	if err != nil {
		return false, err
	}

	assignment := &tenant.UserRoleAssignment{
		AccountID:  accountID,
		TenantID:   tenantID,
		RoleID:     role.ID(),
		AssignedBy: constants.AssignedBySystem,
		AssignedAt: time.Now(),
	}

	if err := p.userRoleRepo.Assign(ctx, assignment); err != nil {
		if errors.IsDuplicateError(err) {
			// A concurrent request already assigned the role; nothing to do.
			return false, nil
		}
		return false, fmt.Errorf("failed to assign default role: %w", err)
	}

	p.logger.Infow("default role assigned",
		"account_id", accountID,
		"tenant_id", tenantID,
		"role_id", role.ID())

	return true, nil
}

func (p *Provisioner) createGuestRole(ctx context.Context, tenantID uint) (*tenant.Role, error) {
	role, err := tenant.NewRole(tenantID, constants.GuestRoleName, "Default view-only role", 0, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build guest role: %w", err)
	}

	if err := p.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	perms, err := p.permissionRepo.GetActiveByNames(ctx, constants.GuestPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guest permissions: %w", err)
	}

	permIDs := make([]uint, 0, len(perms))
	for _, perm := range perms {
		permIDs = append(permIDs, perm.ID())
	}

	if err := p.roleRepo.AssignPermissions(ctx, role.ID(), permIDs); err != nil {
		return nil, fmt.Errorf("failed to bind guest permissions: %w", err)
	}

	if _, err := p.tenantRepo.SetDefaultRoleIfUnset(ctx, tenantID, role.ID()); err != nil {
		return nil, err
	}

	return role, nil
}

func (p *Provisioner) reReadGuestRole(ctx context.Context, tenantID uint) (*tenant.Role, error) {
	role, err := p.roleRepo.GetByAlias(ctx, tenantID, constants.GuestRoleAlias)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read guest role: %w", err)
	}
	if role == nil {
		return nil, fmt.Errorf("guest role missing after duplicate-key recovery")
	}
	if _, err := p.tenantRepo.SetDefaultRoleIfUnset(ctx, tenantID, role.ID()); err != nil {
		return nil, err
	}
	return role, nil
}
