package provisioning

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
)

type testEnv struct {
	provisioner  *Provisioner
	tenantRepo   tenant.Repository
	roleRepo     tenant.RoleRepository
	userRoleRepo tenant.UserRoleRepository
	permRepo     permission.Repository
}

func setupEnv(t *testing.T) *testEnv {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = database.AutoMigrate(
		&models.TenantModel{},
		&models.TenantRoleModel{},
		&models.PermissionModel{},
		&models.TenantRolePermissionModel{},
		&models.UserRoleModel{},
	)
	require.NoError(t, err)

	tenantRepo := repository.NewTenantRepository(database)
	roleRepo := repository.NewTenantRoleRepository(database)
	userRoleRepo := repository.NewUserRoleRepository(database)
	permRepo := repository.NewPermissionRepository(database)

	return &testEnv{
		provisioner:  NewProvisioner(tenantRepo, roleRepo, userRoleRepo, permRepo, db.NewTransactionManager(database)),
		tenantRepo:   tenantRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		permRepo:     permRepo,
	}
}

func createTenant(t *testing.T, env *testEnv, name, slug string) *tenant.Tenant {
	tn, err := tenant.NewTenant(name, slug)
	require.NoError(t, err)
	require.NoError(t, env.tenantRepo.Create(context.Background(), tn))
	return tn
}

func seedPermission(t *testing.T, env *testEnv, name string) *permission.Permission {
	perm, err := permission.NewPermission(name, "")
	require.NoError(t, err)
	require.NoError(t, env.permRepo.Create(context.Background(), perm))
	return perm
}

func TestProvisioner_EnsureTenantHasGuestRole(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the guest role on first call", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Acme", "acme")
		seedPermission(t, env, constants.PermCoursesRead)
		seedPermission(t, env, constants.PermQuizzesRead)

		role, err := env.provisioner.EnsureTenantHasGuestRole(ctx, tn.ID())
		require.NoError(t, err)
		assert.Equal(t, constants.GuestRoleName, role.Name())
		assert.Equal(t, constants.GuestRoleAlias, role.Alias())
		assert.True(t, role.SlotExempt())

		perms, err := env.permRepo.ListByRole(ctx, role.ID())
		require.NoError(t, err)
		names := make([]string, 0, len(perms))
		for _, p := range perms {
			names = append(names, p.Name())
		}
		assert.ElementsMatch(t, []string{constants.PermCoursesRead, constants.PermQuizzesRead}, names)

		updated, err := env.tenantRepo.GetByID(ctx, tn.ID())
		require.NoError(t, err)
		require.NotNil(t, updated.DefaultRoleID())
		assert.Equal(t, role.ID(), *updated.DefaultRoleID())
	})

	t.Run("second call is a no-op returning the same role", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Acme", "acme")

		first, err := env.provisioner.EnsureTenantHasGuestRole(ctx, tn.ID())
		require.NoError(t, err)

		second, err := env.provisioner.EnsureTenantHasGuestRole(ctx, tn.ID())
		require.NoError(t, err)
		assert.Equal(t, first.ID(), second.ID())

		roles, total, err := env.roleRepo.List(ctx, tn.ID(), tenant.RoleFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, roles, 1)
	})

	t.Run("missing catalog names are skipped silently", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Empty", "empty")

		role, err := env.provisioner.EnsureTenantHasGuestRole(ctx, tn.ID())
		require.NoError(t, err)

		perms, err := env.permRepo.ListByRole(ctx, role.ID())
		require.NoError(t, err)
		assert.Empty(t, perms)
	})

	t.Run("unknown tenant is a not-found error", func(t *testing.T) {
		env := setupEnv(t)
		_, err := env.provisioner.EnsureTenantHasGuestRole(ctx, 404)
		assert.Error(t, err)
	})

	t.Run("concurrent bootstraps converge on one role", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Race", "race")

		var wg sync.WaitGroup
		results := make([]uint, 8)
		errs := make([]error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				role, err := env.provisioner.EnsureTenantHasGuestRole(ctx, tn.ID())
				errs[idx] = err
				if role != nil {
					results[idx] = role.ID()
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, results[0], results[i])
		}

		_, total, err := env.roleRepo.List(ctx, tn.ID(), tenant.RoleFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})
}

func TestProvisioner_EnsureUserHasDefaultRole(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the guest role to a roleless account", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Acme", "acme")

		created, err := env.provisioner.EnsureUserHasDefaultRole(ctx, 1, tn.ID())
		require.NoError(t, err)
		assert.True(t, created)

		assignments, err := env.userRoleRepo.ListByAccount(ctx, 1, nil)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, constants.AssignedBySystem, assignments[0].AssignedBy)
	})

	t.Run("existing assignment short-circuits", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Acme", "acme")

		role, err := tenant.NewRole(tn.ID(), "Editor", "", 1, false)
		require.NoError(t, err)
		require.NoError(t, env.roleRepo.Create(ctx, role))
		assignment := &tenant.UserRoleAssignment{
			AccountID:  2,
			TenantID:   tn.ID(),
			RoleID:     role.ID(),
			AssignedBy: "admin@example.com",
		}
		require.NoError(t, env.userRoleRepo.Assign(ctx, assignment))

		created, err := env.provisioner.EnsureUserHasDefaultRole(ctx, 2, tn.ID())
		require.NoError(t, err)
		assert.False(t, created, "an account that already holds a role must not get the guest role")

		assignments, err := env.userRoleRepo.ListByAccount(ctx, 2, nil)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})

	t.Run("repeat call does not duplicate the assignment", func(t *testing.T) {
		env := setupEnv(t)
		tn := createTenant(t, env, "Acme", "acme")

		_, err := env.provisioner.EnsureUserHasDefaultRole(ctx, 3, tn.ID())
		require.NoError(t, err)

		created, err := env.provisioner.EnsureUserHasDefaultRole(ctx, 3, tn.ID())
		require.NoError(t, err)
		assert.False(t, created)

		assignments, err := env.userRoleRepo.ListByAccount(ctx, 3, nil)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})
}
