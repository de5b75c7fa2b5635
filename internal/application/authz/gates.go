package authz

import (
	"context"

	"learnhub/internal/domain/account"
	"learnhub/internal/domain/content"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
)

// GateResult is what a passing gate hands to the caller: the resolved
// account and, when the gate was tenant-scoped, the permission set it
// computed.
type GateResult struct {
	AccountID   uint
	TenantID    *uint
	Permissions map[string]struct{}
}

// Gates implements every authorization check once. The HTTP middleware and
// the ForAction wrappers are thin adapters over these methods; neither
// carries its own logic.
type Gates struct {
	accountRepo  account.Repository
	userRoleRepo tenant.UserRoleRepository
	courseRepo   content.CourseRepository
	quizRepo     content.QuizRepository
	aggregator   *Aggregator
}

func NewGates(
	accountRepo account.Repository,
	userRoleRepo tenant.UserRoleRepository,
	courseRepo content.CourseRepository,
	quizRepo content.QuizRepository,
	aggregator *Aggregator,
) *Gates {
	return &Gates{
		accountRepo:  accountRepo,
		userRoleRepo: userRoleRepo,
		courseRepo:   courseRepo,
		quizRepo:     quizRepo,
		aggregator:   aggregator,
	}
}

// RequireAuth passes for any authenticated identity with an account row.
func (g *Gates) RequireAuth(ctx context.Context, identity *Identity) (*GateResult, *errors.AppError) {
	acct, appErr := g.requireAccount(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}
	return &GateResult{AccountID: acct.ID(), TenantID: acct.TenantID()}, nil
}

// RequirePermission passes when the account holds the named permission in
// the given scope.
func (g *Gates) RequirePermission(ctx context.Context, identity *Identity, name string, tenantID *uint) (*GateResult, *errors.AppError) {
	return g.requireAny(ctx, identity, []string{name}, tenantID)
}

// RequireAnyPermission passes when at least one of the names is held.
func (g *Gates) RequireAnyPermission(ctx context.Context, identity *Identity, names []string, tenantID *uint) (*GateResult, *errors.AppError) {
	return g.requireAny(ctx, identity, names, tenantID)
}

// RequireAllPermissions passes only when every name is held; the denial
// lists which ones are missing.
func (g *Gates) RequireAllPermissions(ctx context.Context, identity *Identity, names []string, tenantID *uint) (*GateResult, *errors.AppError) {
	acct, appErr := g.requireAccount(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}

	set, err := g.aggregator.GetUserPermissions(ctx, acct.ID(), tenantID)
	if err != nil {
		return nil, errors.NewInternalError("failed to resolve permissions", err.Error())
	}

	var missing []string
	for _, name := range names {
		if _, ok := set[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewPermissionDeniedError("Permission denied", names, missing)
	}

	return &GateResult{AccountID: acct.ID(), TenantID: tenantID, Permissions: set}, nil
}

// RequireAdmin passes when the account holds any permission from the admin
// capability bundle. There is no admin role or flag; holding one of these
// capabilities is what being an admin means.
func (g *Gates) RequireAdmin(ctx context.Context, identity *Identity, tenantID *uint) (*GateResult, *errors.AppError) {
	return g.requireAny(ctx, identity, constants.AdminPermissions, tenantID)
}

// RequireTenantMembership passes when the account holds at least one active
// role in the tenant.
func (g *Gates) RequireTenantMembership(ctx context.Context, identity *Identity, tenantID uint) (*GateResult, *errors.AppError) {
	acct, appErr := g.requireAccount(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}

	member, err := g.userRoleRepo.HasActiveRole(ctx, acct.ID(), tenantID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check membership", err.Error())
	}
	if !member {
		return nil, errors.NewAccessDeniedError(constants.ErrMsgAccessDenied)
	}

	return &GateResult{AccountID: acct.ID(), TenantID: &tenantID}, nil
}

// RequireCanEditCourse authorizes course edits. Tenant-owned courses demand
// membership in the owning tenant plus an edit or admin capability there;
// global courses fall back to the caller's own tenant scope.
func (g *Gates) RequireCanEditCourse(ctx context.Context, identity *Identity, courseID uint) (*GateResult, *errors.AppError) {
	acct, appErr := g.requireAccount(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}

	course, err := g.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load course", err.Error())
	}
	if course == nil {
		return nil, errors.NewNotFoundError("Course not found")
	}

	return g.requireContentEdit(ctx, acct, course.TenantID(),
		constants.CourseEditPermissions,
		constants.ErrMsgCourseEditDenied,
		constants.ErrMsgCourseEditNoPerm,
	)
}

// RequireCanEditQuiz is the quiz counterpart of RequireCanEditCourse.
func (g *Gates) RequireCanEditQuiz(ctx context.Context, identity *Identity, quizID uint) (*GateResult, *errors.AppError) {
	acct, appErr := g.requireAccount(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}

	quiz, err := g.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load quiz", err.Error())
	}
	if quiz == nil {
		return nil, errors.NewNotFoundError("Quiz not found")
	}

	return g.requireContentEdit(ctx, acct, quiz.TenantID(),
		constants.QuizEditPermissions,
		constants.ErrMsgQuizEditDenied,
		constants.ErrMsgQuizEditNoPerm,
	)
}

func (g *Gates) requireContentEdit(
	ctx context.Context,
	acct *account.Account,
	ownerTenantID *uint,
	editBundle []string,
	deniedMsg, noPermMsg string,
) (*GateResult, *errors.AppError) {
	required := mergeBundles(editBundle, constants.AdminPermissions)

	scope := ownerTenantID
	if ownerTenantID != nil {
		member, err := g.userRoleRepo.HasActiveRole(ctx, acct.ID(), *ownerTenantID)
		if err != nil {
			return nil, errors.NewInternalError("failed to check membership", err.Error())
		}
		if !member {
			return nil, errors.NewAccessDeniedError(deniedMsg)
		}
	} else {
		// Global content is edited under the caller's own tenant scope.
		scope = acct.TenantID()
	}

	set, err := g.aggregator.GetUserPermissions(ctx, acct.ID(), scope)
	if err != nil {
		return nil, errors.NewInternalError("failed to resolve permissions", err.Error())
	}
	if !holdsAny(set, required) {
		return nil, errors.NewPermissionDeniedError(noPermMsg, required, nil)
	}

	return &GateResult{AccountID: acct.ID(), TenantID: scope, Permissions: set}, nil
}

func (g *Gates) requireAny(ctx context.Context, identity *Identity, names []string, tenantID *uint) (*GateResult, *errors.AppError) {
	acct, appErr := g.requireAccount(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}

	set, err := g.aggregator.GetUserPermissions(ctx, acct.ID(), tenantID)
	if err != nil {
		return nil, errors.NewInternalError("failed to resolve permissions", err.Error())
	}
	if !holdsAny(set, names) {
		return nil, errors.NewPermissionDeniedError("Permission denied", names, nil)
	}

	return &GateResult{AccountID: acct.ID(), TenantID: tenantID, Permissions: set}, nil
}

func (g *Gates) requireAccount(ctx context.Context, identity *Identity) (*account.Account, *errors.AppError) {
	if !identity.Authenticated() {
		return nil, errors.NewUnauthenticatedError()
	}

	var acct *account.Account
	var err error
	if identity.AccountID != 0 {
		acct, err = g.accountRepo.GetByID(ctx, identity.AccountID)
	}
	if acct == nil && err == nil {
		acct, err = g.accountRepo.GetByExternalID(ctx, identity.ExternalID)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to load account", err.Error())
	}
	if acct == nil {
		return nil, errors.NewNotFoundError(constants.ErrMsgAccountNotFound)
	}

	return acct, nil
}

func holdsAny(set map[string]struct{}, names []string) bool {
	for _, name := range names {
		if _, ok := set[name]; ok {
			return true
		}
	}
	return false
}

func mergeBundles(bundles ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, bundle := range bundles {
		for _, name := range bundle {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}
	return merged
}
