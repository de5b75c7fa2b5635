package authz

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnhub/internal/application/provisioning"
	"learnhub/internal/domain/account"
	"learnhub/internal/domain/content"
	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type authzEnv struct {
	accountRepo  account.Repository
	tenantRepo   tenant.Repository
	roleRepo     tenant.RoleRepository
	userRoleRepo tenant.UserRoleRepository
	permRepo     permission.Repository
	courseRepo   content.CourseRepository
	quizRepo     content.QuizRepository
	provisioner  *provisioning.Provisioner
	resolver     *Resolver
	aggregator   *Aggregator
	gates        *Gates
	actions      *ActionGates
}

func setupAuthzEnv(t *testing.T) *authzEnv {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = database.AutoMigrate(
		&models.AccountModel{},
		&models.TenantModel{},
		&models.TenantRoleModel{},
		&models.PermissionModel{},
		&models.TenantRolePermissionModel{},
		&models.UserRoleModel{},
		&models.CourseModel{},
		&models.QuizModel{},
	)
	require.NoError(t, err)

	env := &authzEnv{
		accountRepo:  repository.NewAccountRepository(database),
		tenantRepo:   repository.NewTenantRepository(database),
		roleRepo:     repository.NewTenantRoleRepository(database),
		userRoleRepo: repository.NewUserRoleRepository(database),
		permRepo:     repository.NewPermissionRepository(database),
		courseRepo:   repository.NewCourseRepository(database),
		quizRepo:     repository.NewQuizRepository(database),
	}
	env.provisioner = provisioning.NewProvisioner(
		env.tenantRepo, env.roleRepo, env.userRoleRepo, env.permRepo,
		db.NewTransactionManager(database),
	)
	env.resolver = NewResolver(env.accountRepo, env.tenantRepo, env.provisioner)
	env.aggregator = NewAggregator(env.userRoleRepo)
	env.gates = NewGates(env.accountRepo, env.userRoleRepo, env.courseRepo, env.quizRepo, env.aggregator)
	env.actions = NewActionGates(env.gates)
	return env
}

func (e *authzEnv) newTenant(t *testing.T, name, slug string) *tenant.Tenant {
	tn, err := tenant.NewTenant(name, slug)
	require.NoError(t, err)
	require.NoError(t, e.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (e *authzEnv) newAccount(t *testing.T, externalID, email string, tenantID *uint) *account.Account {
	acct, err := account.NewAccount(externalID, email, "Test User")
	require.NoError(t, err)
	if tenantID != nil {
		require.NoError(t, acct.AssignTenant(*tenantID))
	}
	require.NoError(t, e.accountRepo.Create(context.Background(), acct))
	return acct
}

func (e *authzEnv) newPermission(t *testing.T, name string) *permission.Permission {
	perm, err := permission.NewPermission(name, "")
	require.NoError(t, err)
	require.NoError(t, e.permRepo.Create(context.Background(), perm))
	return perm
}

func (e *authzEnv) newRoleWithPerms(t *testing.T, tenantID uint, name string, permNames ...string) *tenant.Role {
	role, err := tenant.NewRole(tenantID, name, "", 1, false)
	require.NoError(t, err)
	require.NoError(t, e.roleRepo.Create(context.Background(), role))

	ids := make([]uint, 0, len(permNames))
	for _, pn := range permNames {
		perm, err := e.permRepo.GetByName(context.Background(), pn)
		require.NoError(t, err)
		if perm == nil {
			perm = e.newPermission(t, pn)
		}
		ids = append(ids, perm.ID())
	}
	require.NoError(t, e.roleRepo.AssignPermissions(context.Background(), role.ID(), ids))
	return role
}

func (e *authzEnv) assign(t *testing.T, accountID, tenantID, roleID uint) {
	err := e.userRoleRepo.Assign(context.Background(), &tenant.UserRoleAssignment{
		AccountID:  accountID,
		TenantID:   tenantID,
		RoleID:     roleID,
		AssignedBy: "admin@example.com",
		AssignedAt: time.Now(),
	})
	require.NoError(t, err)
}

func identityOf(acct *account.Account) *Identity {
	return &Identity{AccountID: acct.ID(), ExternalID: acct.ExternalID()}
}

func TestResolver_ResolveTenantContext(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated is 401", func(t *testing.T) {
		env := setupAuthzEnv(t)
		_, appErr := env.resolver.ResolveTenantContext(ctx, nil)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	})

	t.Run("unknown account is 404", func(t *testing.T) {
		env := setupAuthzEnv(t)
		_, appErr := env.resolver.ResolveTenantContext(ctx, &Identity{ExternalID: "ghost"})
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("no tenant redirects to onboarding", func(t *testing.T) {
		env := setupAuthzEnv(t)
		acct := env.newAccount(t, "ext-1", "new@example.com", nil)

		_, appErr := env.resolver.ResolveTenantContext(ctx, identityOf(acct))
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.True(t, errors.IsNoTenantAssigned(appErr))
		assert.Equal(t, constants.OnboardingPath, appErr.RedirectTo)
	})

	t.Run("success provisions the default role on the way through", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-2", "member@example.com", uintPtr(tn.ID()))

		tc, appErr := env.resolver.ResolveTenantContext(ctx, identityOf(acct))
		require.Nil(t, appErr)
		assert.Equal(t, acct.ID(), tc.AccountID)
		assert.Equal(t, tn.ID(), tc.TenantID)

		assignments, err := env.userRoleRepo.ListByAccount(ctx, acct.ID(), nil)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, constants.AssignedBySystem, assignments[0].AssignedBy)

		guest, err := env.roleRepo.GetByAlias(ctx, tn.ID(), constants.GuestRoleAlias)
		require.NoError(t, err)
		require.NotNil(t, guest)
		assert.Equal(t, guest.ID(), assignments[0].RoleID)
	})

	t.Run("ResolveTenantID returns nil without error for tenantless account", func(t *testing.T) {
		env := setupAuthzEnv(t)
		acct := env.newAccount(t, "ext-3", "limbo@example.com", nil)

		tenantID, appErr := env.resolver.ResolveTenantID(ctx, identityOf(acct))
		require.Nil(t, appErr)
		assert.Nil(t, tenantID)
	})
}

func TestGates_RequirePermission(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated is 401", func(t *testing.T) {
		env := setupAuthzEnv(t)
		_, appErr := env.gates.RequirePermission(ctx, nil, constants.PermCoursesRead, nil)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	})

	t.Run("held permission passes", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "u@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		result, appErr := env.gates.RequirePermission(ctx, identityOf(acct), constants.PermCoursesRead, uintPtr(tn.ID()))
		require.Nil(t, appErr)
		assert.Contains(t, result.Permissions, constants.PermCoursesRead)
	})

	t.Run("missing permission is 403 with the required name", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "u@example.com", uintPtr(tn.ID()))

		_, appErr := env.gates.RequirePermission(ctx, identityOf(acct), constants.PermCoursesUpdate, uintPtr(tn.ID()))
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
		assert.Equal(t, []string{constants.PermCoursesUpdate}, appErr.Required)
	})

	t.Run("RequireAllPermissions reports the missing subset", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "u@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		names := []string{constants.PermCoursesRead, constants.PermCoursesUpdate}
		_, appErr := env.gates.RequireAllPermissions(ctx, identityOf(acct), names, uintPtr(tn.ID()))
		require.NotNil(t, appErr)
		assert.Equal(t, names, appErr.Required)
		assert.Equal(t, []string{constants.PermCoursesUpdate}, appErr.Missing)
	})

	t.Run("deactivating a role revokes access on the next check", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "u@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		_, appErr := env.gates.RequirePermission(ctx, identityOf(acct), constants.PermCoursesRead, uintPtr(tn.ID()))
		require.Nil(t, appErr)

		require.NoError(t, role.Deactivate())
		require.NoError(t, env.roleRepo.Update(ctx, role))

		_, appErr = env.gates.RequirePermission(ctx, identityOf(acct), constants.PermCoursesRead, uintPtr(tn.ID()))
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
	})
}

func TestGates_RequireAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("any admin capability is sufficient", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "a@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "RoleManager", constants.PermRolesAssign)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		_, appErr := env.gates.RequireAdmin(ctx, identityOf(acct), uintPtr(tn.ID()))
		assert.Nil(t, appErr)
	})

	t.Run("no admin capability is 403", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "v@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		_, appErr := env.gates.RequireAdmin(ctx, identityOf(acct), uintPtr(tn.ID()))
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
	})

	t.Run("unknown account is 404", func(t *testing.T) {
		env := setupAuthzEnv(t)
		_, appErr := env.gates.RequireAdmin(ctx, &Identity{ExternalID: "ghost"}, nil)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})
}

func TestGates_RequireTenantMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("active role in tenant passes", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "m@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer")
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		_, appErr := env.gates.RequireTenantMembership(ctx, identityOf(acct), tn.ID())
		assert.Nil(t, appErr)
	})

	t.Run("no role in tenant is access denied", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		other := env.newTenant(t, "Globex", "globex")
		acct := env.newAccount(t, "ext-1", "m@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer")
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		_, appErr := env.gates.RequireTenantMembership(ctx, identityOf(acct), other.ID())
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
		assert.Equal(t, constants.ErrMsgAccessDenied, appErr.Message)
	})
}

func TestGates_RequireCanEditCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("missing course is 404", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "e@example.com", uintPtr(tn.ID()))

		_, appErr := env.gates.RequireCanEditCourse(ctx, identityOf(acct), 404)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("non-member of the owning tenant is denied with the access message", func(t *testing.T) {
		env := setupAuthzEnv(t)
		owner := env.newTenant(t, "Acme", "acme")
		other := env.newTenant(t, "Globex", "globex")
		acct := env.newAccount(t, "ext-1", "e@example.com", uintPtr(other.ID()))
		role := env.newRoleWithPerms(t, other.ID(), "Editor", constants.PermCoursesUpdate)
		env.assign(t, acct.ID(), other.ID(), role.ID())

		course, err := content.NewCourse("Algebra", "", uintPtr(owner.ID()), acct.ID())
		require.NoError(t, err)
		require.NoError(t, env.courseRepo.Create(ctx, course))

		_, appErr := env.gates.RequireCanEditCourse(ctx, identityOf(acct), course.ID())
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
		assert.Equal(t, constants.ErrMsgCourseEditDenied, appErr.Message)
	})

	t.Run("member without edit capability gets the permission message", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "v@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		course, err := content.NewCourse("Algebra", "", uintPtr(tn.ID()), acct.ID())
		require.NoError(t, err)
		require.NoError(t, env.courseRepo.Create(ctx, course))

		_, appErr := env.gates.RequireCanEditCourse(ctx, identityOf(acct), course.ID())
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
		assert.Equal(t, constants.ErrMsgCourseEditNoPerm, appErr.Message)
	})

	t.Run("member with edit capability passes", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "e@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Editor", constants.PermCoursesUpdate)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		course, err := content.NewCourse("Algebra", "", uintPtr(tn.ID()), acct.ID())
		require.NoError(t, err)
		require.NoError(t, env.courseRepo.Create(ctx, course))

		_, appErr := env.gates.RequireCanEditCourse(ctx, identityOf(acct), course.ID())
		assert.Nil(t, appErr)
	})

	t.Run("admin capability substitutes for the edit bundle", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "a@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Admin", constants.PermDashboardAdmin)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		course, err := content.NewCourse("Algebra", "", uintPtr(tn.ID()), acct.ID())
		require.NoError(t, err)
		require.NoError(t, env.courseRepo.Create(ctx, course))

		_, appErr := env.gates.RequireCanEditCourse(ctx, identityOf(acct), course.ID())
		assert.Nil(t, appErr)
	})

	t.Run("global course is edited under the caller's own tenant", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		editor := env.newAccount(t, "ext-1", "e@example.com", uintPtr(tn.ID()))
		viewer := env.newAccount(t, "ext-2", "v@example.com", uintPtr(tn.ID()))
		editorRole := env.newRoleWithPerms(t, tn.ID(), "Editor", constants.PermCoursesUpdate)
		viewerRole := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, editor.ID(), tn.ID(), editorRole.ID())
		env.assign(t, viewer.ID(), tn.ID(), viewerRole.ID())

		course, err := content.NewCourse("Shared Algebra", "", nil, editor.ID())
		require.NoError(t, err)
		require.NoError(t, env.courseRepo.Create(ctx, course))

		_, appErr := env.gates.RequireCanEditCourse(ctx, identityOf(editor), course.ID())
		assert.Nil(t, appErr)

		_, appErr = env.gates.RequireCanEditCourse(ctx, identityOf(viewer), course.ID())
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
	})
}

func TestGates_RequireCanEditQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("quiz messages are quiz-specific", func(t *testing.T) {
		env := setupAuthzEnv(t)
		owner := env.newTenant(t, "Acme", "acme")
		other := env.newTenant(t, "Globex", "globex")
		member := env.newAccount(t, "ext-1", "m@example.com", uintPtr(owner.ID()))
		outsider := env.newAccount(t, "ext-2", "o@example.com", uintPtr(other.ID()))
		viewerRole := env.newRoleWithPerms(t, owner.ID(), "Viewer", constants.PermQuizzesRead)
		otherRole := env.newRoleWithPerms(t, other.ID(), "Viewer")
		env.assign(t, member.ID(), owner.ID(), viewerRole.ID())
		env.assign(t, outsider.ID(), other.ID(), otherRole.ID())

		quiz, err := content.NewQuiz("Midterm", "", uintPtr(owner.ID()), 600, member.ID())
		require.NoError(t, err)
		require.NoError(t, env.quizRepo.Create(ctx, quiz))

		_, appErr := env.gates.RequireCanEditQuiz(ctx, identityOf(outsider), quiz.ID())
		require.NotNil(t, appErr)
		assert.Equal(t, constants.ErrMsgQuizEditDenied, appErr.Message)

		_, appErr = env.gates.RequireCanEditQuiz(ctx, identityOf(member), quiz.ID())
		require.NotNil(t, appErr)
		assert.Equal(t, constants.ErrMsgQuizEditNoPerm, appErr.Message)
	})
}

func TestActionGates(t *testing.T) {
	ctx := context.Background()

	t.Run("denials become sentinel-wrapped plain errors", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "v@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		_, err := env.actions.RequireAdminForAction(ctx, identityOf(acct), uintPtr(tn.ID()))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		_, err = env.actions.RequireAuthForAction(ctx, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthenticated)

		_, err = env.actions.RequireAuthForAction(ctx, &Identity{ExternalID: "ghost"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("passing checks return the same result as the core gate", func(t *testing.T) {
		env := setupAuthzEnv(t)
		tn := env.newTenant(t, "Acme", "acme")
		acct := env.newAccount(t, "ext-1", "v@example.com", uintPtr(tn.ID()))
		role := env.newRoleWithPerms(t, tn.ID(), "Viewer", constants.PermCoursesRead)
		env.assign(t, acct.ID(), tn.ID(), role.ID())

		result, err := env.actions.RequirePermissionForAction(ctx, identityOf(acct), constants.PermCoursesRead, uintPtr(tn.ID()))
		require.NoError(t, err)
		assert.Equal(t, acct.ID(), result.AccountID)
	})
}

func uintPtr(v uint) *uint {
	return &v
}
