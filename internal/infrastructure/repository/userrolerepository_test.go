package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return database
}

func createTestRole(t *testing.T, database *gorm.DB, tenantID uint, name string) *tenant.Role {
	role, err := tenant.NewRole(tenantID, name, "", 0, false)
	require.NoError(t, err)
	require.NoError(t, NewTenantRoleRepository(database).Create(context.Background(), role))
	return role
}

func createTestPermission(t *testing.T, database *gorm.DB, name string) *permission.Permission {
	perm, err := permission.NewPermission(name, "")
	require.NoError(t, err)
	require.NoError(t, NewPermissionRepository(database).Create(context.Background(), perm))
	return perm
}

func assignTestRole(t *testing.T, database *gorm.DB, accountID, tenantID, roleID uint) {
	err := NewUserRoleRepository(database).Assign(context.Background(), &tenant.UserRoleAssignment{
		AccountID:  accountID,
		TenantID:   tenantID,
		RoleID:     roleID,
		AssignedBy: constants.AssignedBySystem,
		AssignedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestUserRoleRepository_Assign(t *testing.T) {
	database := setupTestDB(t)
	repo := NewUserRoleRepository(database)
	ctx := context.Background()

	role := createTestRole(t, database, 1, "Member")

	t.Run("assign role successfully", func(t *testing.T) {
		assignment := &tenant.UserRoleAssignment{
			AccountID:  10,
			TenantID:   1,
			RoleID:     role.ID(),
			AssignedBy: "admin@example.com",
			AssignedAt: time.Now(),
		}
		err := repo.Assign(ctx, assignment)
		assert.NoError(t, err)
		assert.NotZero(t, assignment.ID)
	})

	t.Run("duplicate assignment hits the unique index", func(t *testing.T) {
		first := &tenant.UserRoleAssignment{
			AccountID:  20,
			TenantID:   1,
			RoleID:     role.ID(),
			AssignedBy: constants.AssignedBySystem,
			AssignedAt: time.Now(),
		}
		require.NoError(t, repo.Assign(ctx, first))

		second := &tenant.UserRoleAssignment{
			AccountID:  20,
			TenantID:   1,
			RoleID:     role.ID(),
			AssignedBy: constants.AssignedBySystem,
			AssignedAt: time.Now(),
		}
		err := repo.Assign(ctx, second)
		assert.Error(t, err)
		assert.True(t, errors.IsDuplicateError(err))
	})

	t.Run("same account and role in another tenant is allowed", func(t *testing.T) {
		otherRole := createTestRole(t, database, 2, "Member")
		err := repo.Assign(ctx, &tenant.UserRoleAssignment{
			AccountID:  20,
			TenantID:   2,
			RoleID:     otherRole.ID(),
			AssignedBy: constants.AssignedBySystem,
			AssignedAt: time.Now(),
		})
		assert.NoError(t, err)
	})
}

func TestUserRoleRepository_HasActiveRole(t *testing.T) {
	database := setupTestDB(t)
	repo := NewUserRoleRepository(database)
	roleRepo := NewTenantRoleRepository(database)
	ctx := context.Background()

	t.Run("no assignment means no membership", func(t *testing.T) {
		has, err := repo.HasActiveRole(ctx, 99, 1)
		assert.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("active role counts", func(t *testing.T) {
		role := createTestRole(t, database, 1, "Editor")
		assignTestRole(t, database, 30, 1, role.ID())

		has, err := repo.HasActiveRole(ctx, 30, 1)
		assert.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("deactivated role stops counting immediately", func(t *testing.T) {
		role := createTestRole(t, database, 1, "Temp")
		assignTestRole(t, database, 40, 1, role.ID())

		require.NoError(t, role.Deactivate())
		require.NoError(t, roleRepo.Update(ctx, role))

		has, err := repo.HasActiveRole(ctx, 40, 1)
		assert.NoError(t, err)
		assert.False(t, has)
	})
}

func TestUserRoleRepository_EffectivePermissionNames(t *testing.T) {
	database := setupTestDB(t)
	repo := NewUserRoleRepository(database)
	roleRepo := NewTenantRoleRepository(database)
	permRepo := NewPermissionRepository(database)
	ctx := context.Background()

	viewCourses := createTestPermission(t, database, "courses.view")
	editCourses := createTestPermission(t, database, "courses.update")
	viewQuizzes := createTestPermission(t, database, "quizzes.view")

	t.Run("unions permissions across roles without duplicates", func(t *testing.T) {
		viewer := createTestRole(t, database, 1, "Viewer")
		editor := createTestRole(t, database, 1, "Editor")
		require.NoError(t, roleRepo.AssignPermissions(ctx, viewer.ID(), []uint{viewCourses.ID(), viewQuizzes.ID()}))
		require.NoError(t, roleRepo.AssignPermissions(ctx, editor.ID(), []uint{viewCourses.ID(), editCourses.ID()}))

		assignTestRole(t, database, 50, 1, viewer.ID())
		assignTestRole(t, database, 50, 1, editor.ID())

		names, err := repo.EffectivePermissionNames(ctx, 50, uintPtr(1))
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"courses.view", "courses.update", "quizzes.view"}, names)
	})

	t.Run("inactive role contributes nothing", func(t *testing.T) {
		role := createTestRole(t, database, 2, "Ghost")
		require.NoError(t, roleRepo.AssignPermissions(ctx, role.ID(), []uint{viewCourses.ID()}))
		assignTestRole(t, database, 60, 2, role.ID())

		require.NoError(t, role.Deactivate())
		require.NoError(t, roleRepo.Update(ctx, role))

		names, err := repo.EffectivePermissionNames(ctx, 60, uintPtr(2))
		assert.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("deprecated permission is excluded immediately", func(t *testing.T) {
		legacy := createTestPermission(t, database, "reports.export")
		role := createTestRole(t, database, 3, "Analyst")
		require.NoError(t, roleRepo.AssignPermissions(ctx, role.ID(), []uint{legacy.ID(), viewCourses.ID()}))
		assignTestRole(t, database, 70, 3, role.ID())

		legacy.Deprecate()
		require.NoError(t, permRepo.Update(ctx, legacy))

		names, err := repo.EffectivePermissionNames(ctx, 70, uintPtr(3))
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"courses.view"}, names)
	})

	t.Run("tenant filter scopes the union", func(t *testing.T) {
		roleA := createTestRole(t, database, 4, "A")
		roleB := createTestRole(t, database, 5, "B")
		require.NoError(t, roleRepo.AssignPermissions(ctx, roleA.ID(), []uint{viewCourses.ID()}))
		require.NoError(t, roleRepo.AssignPermissions(ctx, roleB.ID(), []uint{viewQuizzes.ID()}))
		assignTestRole(t, database, 80, 4, roleA.ID())
		assignTestRole(t, database, 80, 5, roleB.ID())

		names, err := repo.EffectivePermissionNames(ctx, 80, uintPtr(4))
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"courses.view"}, names)

		all, err := repo.EffectivePermissionNames(ctx, 80, nil)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"courses.view", "quizzes.view"}, all)
	})

	t.Run("no assignments yields empty set", func(t *testing.T) {
		names, err := repo.EffectivePermissionNames(ctx, 999, uintPtr(1))
		assert.NoError(t, err)
		assert.Empty(t, names)
	})
}

func uintPtr(v uint) *uint {
	return &v
}
