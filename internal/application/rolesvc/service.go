package rolesvc

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/domain/account"
	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/email"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

// roleSlotLimits caps the number of slot-occupying roles per subscription
// tier. Slot-exempt roles (the built-in Guest) never count.
var roleSlotLimits = map[string]int64{
	"free":       3,
	"pro":        10,
	"enterprise": 0, // unlimited
}

// Service owns tenant role administration: CRUD, permission bindings, and
// manual role assignment with email notification.
type Service struct {
	tenantRepo     tenant.Repository
	roleRepo       tenant.RoleRepository
	userRoleRepo   tenant.UserRoleRepository
	permissionRepo permission.Repository
	accountRepo    account.Repository
	emailService   email.Service
	logger         logger.Interface
}

func NewService(
	tenantRepo tenant.Repository,
	roleRepo tenant.RoleRepository,
	userRoleRepo tenant.UserRoleRepository,
	permissionRepo permission.Repository,
	accountRepo account.Repository,
	emailService email.Service,
) *Service {
	return &Service{
		tenantRepo:     tenantRepo,
		roleRepo:       roleRepo,
		userRoleRepo:   userRoleRepo,
		permissionRepo: permissionRepo,
		accountRepo:    accountRepo,
		emailService:   emailService,
		logger:         logger.NewLogger().With("component", "rolesvc"),
	}
}

type CreateRoleInput struct {
	TenantID        uint
	Name            string
	Description     string
	PermissionNames []string
}

// CreateRole creates a slot-occupying role and binds the named permissions
// that resolve to active catalog rows.
func (s *Service) CreateRole(ctx context.Context, input CreateRoleInput) (*tenant.Role, error) {
	tn, err := s.tenantRepo.GetByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	if tn == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	if err := s.checkSlotLimit(ctx, tn); err != nil {
		return nil, err
	}

	used, err := s.roleRepo.CountNonExempt(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	role, err := tenant.NewRole(input.TenantID, input.Name, input.Description, int(used)+1, false)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(fmt.Sprintf("a role named %q already exists in this tenant", input.Name))
		}
		return nil, err
	}

	if len(input.PermissionNames) > 0 {
		if err := s.bindPermissions(ctx, role.ID(), input.PermissionNames); err != nil {
			return nil, err
		}
	}

	s.logger.Infow("role created",
		"tenant_id", input.TenantID,
		"role_id", role.ID(),
		"name", role.Name())

	return role, nil
}

type UpdateRoleInput struct {
	Name            string
	Description     *string
	PermissionNames []string
	HasPermissions  bool
}

// loadTenantRole fetches a role and verifies it belongs to the given
// tenant. A role owned by another tenant reads as not found, so
// cross-tenant probes cannot tell foreign roles from missing ones.
func (s *Service) loadTenantRole(ctx context.Context, tenantID, roleID uint) (*tenant.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil || role.TenantID() != tenantID {
		return nil, errors.NewNotFoundError("role not found")
	}
	return role, nil
}

// UpdateRole renames a role and, when HasPermissions is set, replaces its
// permission bindings with the given names.
func (s *Service) UpdateRole(ctx context.Context, tenantID, roleID uint, input UpdateRoleInput) (*tenant.Role, error) {
	role, err := s.loadTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != role.Name() {
		if err := role.Rename(input.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if input.Description != nil {
		role.UpdateDescription(*input.Description)
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(fmt.Sprintf("a role named %q already exists in this tenant", input.Name))
		}
		return nil, err
	}

	if input.HasPermissions {
		if err := s.replacePermissions(ctx, role.ID(), input.PermissionNames); err != nil {
			return nil, err
		}
	}

	return role, nil
}

// DeactivateRole turns a role off without touching its assignments. The
// grants stop applying on the next permission resolution.
func (s *Service) DeactivateRole(ctx context.Context, tenantID, roleID uint) error {
	role, err := s.loadTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return err
	}

	if err := role.Deactivate(); err != nil {
		return errors.NewValidationError(err.Error())
	}

	return s.roleRepo.Update(ctx, role)
}

func (s *Service) GetRole(ctx context.Context, tenantID, roleID uint) (*tenant.Role, []*permission.Permission, error) {
	role, err := s.loadTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, nil, err
	}

	perms, err := s.permissionRepo.ListByRole(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}

	return role, perms, nil
}

func (s *Service) ListRoles(ctx context.Context, tenantID uint, filter tenant.RoleFilter) ([]*tenant.Role, int64, error) {
	return s.roleRepo.List(ctx, tenantID, filter)
}

// AssignRole binds a role to an account and notifies the account by email
// when delivery is configured.
func (s *Service) AssignRole(ctx context.Context, tenantID, accountID, roleID uint, assignedBy string) error {
	role, err := s.loadTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return err
	}

	acct, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct == nil {
		return errors.NewNotFoundError("account not found")
	}

	assignment := &tenant.UserRoleAssignment{
		AccountID:  accountID,
		TenantID:   role.TenantID(),
		RoleID:     roleID,
		AssignedBy: assignedBy,
		AssignedAt: time.Now(),
	}

	if err := s.userRoleRepo.Assign(ctx, assignment); err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("account already holds this role")
		}
		return err
	}

	s.notifyRoleChange(ctx, acct, role, true)
	return nil
}

// RemoveRole detaches a role from an account.
func (s *Service) RemoveRole(ctx context.Context, tenantID, accountID, roleID uint) error {
	role, err := s.loadTenantRole(ctx, tenantID, roleID)
	if err != nil {
		return err
	}

	acct, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct == nil {
		return errors.NewNotFoundError("account not found")
	}

	if err := s.userRoleRepo.Remove(ctx, accountID, role.TenantID(), roleID); err != nil {
		return err
	}

	s.notifyRoleChange(ctx, acct, role, false)
	return nil
}

func (s *Service) ListAssignments(ctx context.Context, accountID uint, tenantID *uint) ([]*tenant.UserRoleAssignment, error) {
	return s.userRoleRepo.ListByAccount(ctx, accountID, tenantID)
}

// AttachPermissions adds the named permissions to a role. Names missing
// from the catalog or already bound are skipped.
func (s *Service) AttachPermissions(ctx context.Context, tenantID, roleID uint, names []string) error {
	if _, err := s.loadTenantRole(ctx, tenantID, roleID); err != nil {
		return err
	}

	return s.bindPermissions(ctx, roleID, names)
}

// DetachPermissions removes the named permissions from a role.
func (s *Service) DetachPermissions(ctx context.Context, tenantID, roleID uint, names []string) error {
	if _, err := s.loadTenantRole(ctx, tenantID, roleID); err != nil {
		return err
	}

	perms, err := s.permissionRepo.GetActiveByNames(ctx, names)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(perms))
	for _, perm := range perms {
		ids = append(ids, perm.ID())
	}

	return s.roleRepo.RemovePermissions(ctx, roleID, ids)
}

func (s *Service) checkSlotLimit(ctx context.Context, tn *tenant.Tenant) error {
	limit, ok := roleSlotLimits[tn.SubscriptionTier()]
	if !ok || limit == 0 {
		return nil
	}

	used, err := s.roleRepo.CountNonExempt(ctx, tn.ID())
	if err != nil {
		return err
	}
	if used >= limit {
		return errors.NewValidationError(
			fmt.Sprintf("role limit reached for the %s tier (%d roles)", tn.SubscriptionTier(), limit))
	}
	return nil
}

func (s *Service) bindPermissions(ctx context.Context, roleID uint, names []string) error {
	perms, err := s.permissionRepo.GetActiveByNames(ctx, names)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(perms))
	for _, perm := range perms {
		ids = append(ids, perm.ID())
	}

	return s.roleRepo.AssignPermissions(ctx, roleID, ids)
}

func (s *Service) replacePermissions(ctx context.Context, roleID uint, names []string) error {
	current, err := s.permissionRepo.ListByRole(ctx, roleID)
	if err != nil {
		return err
	}

	currentIDs := make([]uint, 0, len(current))
	for _, perm := range current {
		currentIDs = append(currentIDs, perm.ID())
	}
	if err := s.roleRepo.RemovePermissions(ctx, roleID, currentIDs); err != nil {
		return err
	}

	return s.bindPermissions(ctx, roleID, names)
}

func (s *Service) notifyRoleChange(ctx context.Context, acct *account.Account, role *tenant.Role, assigned bool) {
	if s.emailService == nil {
		return
	}

	tn, err := s.tenantRepo.GetByID(ctx, role.TenantID())
	tenantName := ""
	if err == nil && tn != nil {
		tenantName = tn.Name()
	}

	if assigned {
		err = s.emailService.SendRoleAssignedEmail(acct.Email(), role.Name(), tenantName)
	} else {
		err = s.emailService.SendRoleRemovedEmail(acct.Email(), role.Name(), tenantName)
	}
	if err != nil {
		// Notification failure never fails the assignment itself.
		s.logger.Warnw("role notification failed",
			"account_id", acct.ID(),
			"role_id", role.ID(),
			"error", err)
	}
}
