package rolesvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnhub/internal/domain/account"
	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/email"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/shared/errors"
)

type rolesvcEnv struct {
	svc          *Service
	tenantRepo   tenant.Repository
	roleRepo     tenant.RoleRepository
	userRoleRepo tenant.UserRoleRepository
	permRepo     permission.Repository
	accountRepo  account.Repository
}

func setupRolesvcEnv(t *testing.T) *rolesvcEnv {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = database.AutoMigrate(
		&models.AccountModel{},
		&models.TenantModel{},
		&models.TenantRoleModel{},
		&models.PermissionModel{},
		&models.TenantRolePermissionModel{},
		&models.UserRoleModel{},
	)
	require.NoError(t, err)

	env := &rolesvcEnv{
		tenantRepo:   repository.NewTenantRepository(database),
		roleRepo:     repository.NewTenantRoleRepository(database),
		userRoleRepo: repository.NewUserRoleRepository(database),
		permRepo:     repository.NewPermissionRepository(database),
		accountRepo:  repository.NewAccountRepository(database),
	}
	env.svc = NewService(
		env.tenantRepo, env.roleRepo, env.userRoleRepo,
		env.permRepo, env.accountRepo, email.NewNoopEmailService(),
	)
	return env
}

func (e *rolesvcEnv) newTenant(t *testing.T, name, slug string) *tenant.Tenant {
	tn, err := tenant.NewTenant(name, slug)
	require.NoError(t, err)
	require.NoError(t, e.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (e *rolesvcEnv) newRole(t *testing.T, tenantID uint, name string) *tenant.Role {
	role, err := tenant.NewRole(tenantID, name, "", 1, false)
	require.NoError(t, err)
	require.NoError(t, e.roleRepo.Create(context.Background(), role))
	return role
}

func (e *rolesvcEnv) newAccount(t *testing.T, externalID, mail string, tenantID uint) *account.Account {
	acct, err := account.NewAccount(externalID, mail, "Test User")
	require.NoError(t, err)
	require.NoError(t, acct.AssignTenant(tenantID))
	require.NoError(t, e.accountRepo.Create(context.Background(), acct))
	return acct
}

func (e *rolesvcEnv) newPermission(t *testing.T, name string) *permission.Permission {
	perm, err := permission.NewPermission(name, "")
	require.NoError(t, err)
	require.NoError(t, e.permRepo.Create(context.Background(), perm))
	return perm
}

// Every role operation is scoped to the caller's tenant: a role owned by
// another tenant must read as not found, never be touched.
func TestService_RoleOperationsScopedToTenant(t *testing.T) {
	env := setupRolesvcEnv(t)
	ctx := context.Background()

	tenantA := env.newTenant(t, "Tenant A", "tenant-a")
	tenantB := env.newTenant(t, "Tenant B", "tenant-b")
	foreignRole := env.newRole(t, tenantB.ID(), "Staff")
	attacker := env.newAccount(t, "ext-attacker", "attacker@example.com", tenantA.ID())
	env.newPermission(t, "settings.update")

	t.Run("get rejects foreign role", func(t *testing.T) {
		_, _, err := env.svc.GetRole(ctx, tenantA.ID(), foreignRole.ID())
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("update rejects foreign role", func(t *testing.T) {
		_, err := env.svc.UpdateRole(ctx, tenantA.ID(), foreignRole.ID(), UpdateRoleInput{Name: "Hijacked"})
		assert.True(t, errors.IsNotFoundError(err))

		role, getErr := env.roleRepo.GetByID(ctx, foreignRole.ID())
		require.NoError(t, getErr)
		assert.Equal(t, "Staff", role.Name())
	})

	t.Run("deactivate rejects foreign role", func(t *testing.T) {
		err := env.svc.DeactivateRole(ctx, tenantA.ID(), foreignRole.ID())
		assert.True(t, errors.IsNotFoundError(err))

		role, getErr := env.roleRepo.GetByID(ctx, foreignRole.ID())
		require.NoError(t, getErr)
		assert.True(t, role.IsActive())
	})

	t.Run("assign rejects foreign role", func(t *testing.T) {
		err := env.svc.AssignRole(ctx, tenantA.ID(), attacker.ID(), foreignRole.ID(), "attacker@example.com")
		assert.True(t, errors.IsNotFoundError(err))

		names, aggErr := env.userRoleRepo.EffectivePermissionNames(ctx, attacker.ID(), nil)
		require.NoError(t, aggErr)
		assert.Empty(t, names)
	})

	t.Run("attach rejects foreign role", func(t *testing.T) {
		err := env.svc.AttachPermissions(ctx, tenantA.ID(), foreignRole.ID(), []string{"settings.update"})
		assert.True(t, errors.IsNotFoundError(err))

		perms, listErr := env.permRepo.ListByRole(ctx, foreignRole.ID())
		require.NoError(t, listErr)
		assert.Empty(t, perms)
	})

	t.Run("detach rejects foreign role", func(t *testing.T) {
		err := env.svc.DetachPermissions(ctx, tenantA.ID(), foreignRole.ID(), []string{"settings.update"})
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("remove rejects foreign role", func(t *testing.T) {
		err := env.svc.RemoveRole(ctx, tenantA.ID(), attacker.ID(), foreignRole.ID())
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("own-tenant role still works", func(t *testing.T) {
		ownRole := env.newRole(t, tenantA.ID(), "Editors")

		got, _, err := env.svc.GetRole(ctx, tenantA.ID(), ownRole.ID())
		require.NoError(t, err)
		assert.Equal(t, ownRole.ID(), got.ID())

		require.NoError(t, env.svc.AssignRole(ctx, tenantA.ID(), attacker.ID(), ownRole.ID(), "admin@example.com"))
	})
}

func TestService_AssignRoleScopesGrantsToOwningTenant(t *testing.T) {
	env := setupRolesvcEnv(t)
	ctx := context.Background()

	tenantA := env.newTenant(t, "Tenant A", "tenant-a")
	tenantB := env.newTenant(t, "Tenant B", "tenant-b")
	acct := env.newAccount(t, "ext-member", "member@example.com", tenantA.ID())

	perm := env.newPermission(t, "settings.update")
	role := env.newRole(t, tenantA.ID(), "Admins")
	require.NoError(t, env.roleRepo.AssignPermissions(ctx, role.ID(), []uint{perm.ID()}))

	require.NoError(t, env.svc.AssignRole(ctx, tenantA.ID(), acct.ID(), role.ID(), "admin@example.com"))

	inA, err := env.userRoleRepo.EffectivePermissionNames(ctx, acct.ID(), uintRef(tenantA.ID()))
	require.NoError(t, err)
	assert.Contains(t, inA, "settings.update")

	inB, err := env.userRoleRepo.EffectivePermissionNames(ctx, acct.ID(), uintRef(tenantB.ID()))
	require.NoError(t, err)
	assert.Empty(t, inB)
}

func uintRef(v uint) *uint { return &v }
