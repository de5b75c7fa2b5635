package seed

import (
	"context"
	"fmt"

	"learnhub/internal/domain/permission"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/logger"
)

// catalog maps every known permission name to its description. Seeding is
// idempotent: existing rows are left untouched, so deactivations and
// deprecations done at runtime survive a re-seed.
var catalog = map[string]string{
	constants.PermUsersCreate: "Create user accounts",
	constants.PermUsersRead:   "View user accounts",
	constants.PermUsersUpdate: "Edit user accounts",
	constants.PermUsersDelete: "Delete user accounts",

	constants.PermQuizzesCreate: "Create quizzes",
	constants.PermQuizzesRead:   "View quizzes",
	constants.PermQuizzesUpdate: "Edit quizzes",
	constants.PermQuizzesDelete: "Delete quizzes",

	constants.PermCoursesCreate: "Create courses",
	constants.PermCoursesRead:   "View courses",
	constants.PermCoursesUpdate: "Edit courses",
	constants.PermCoursesDelete: "Delete courses",

	constants.PermCategoriesCreate: "Create categories",
	constants.PermCategoriesRead:   "View categories",
	constants.PermCategoriesUpdate: "Edit categories",
	constants.PermCategoriesDelete: "Delete categories",

	constants.PermRewardsCreate: "Create rewards",
	constants.PermRewardsRead:   "View rewards",
	constants.PermRewardsUpdate: "Edit rewards",
	constants.PermRewardsDelete: "Delete rewards",

	constants.PermPointsView:   "View point balances",
	constants.PermPointsManage: "Adjust point balances",

	constants.PermGamesRead:   "View games",
	constants.PermGamesManage: "Manage games",

	constants.PermReportsView:   "View reports",
	constants.PermReportsExport: "Export reports",

	constants.PermLeaderboardView: "View the leaderboard",

	constants.PermAuditView: "View the audit log",

	constants.PermSettingsView:   "View tenant settings",
	constants.PermSettingsUpdate: "Edit tenant settings",

	constants.PermRolesCreate: "Create roles",
	constants.PermRolesRead:   "View roles",
	constants.PermRolesUpdate: "Edit roles",
	constants.PermRolesDelete: "Delete roles",
	constants.PermRolesAssign: "Assign roles to users",

	constants.PermBillingView:   "View billing",
	constants.PermBillingManage: "Manage billing",

	constants.PermDashboardAdmin:   "Access the admin dashboard",
	constants.PermDashboardManager: "Access the manager dashboard",

	constants.PermFlashcardsManageTenant: "Manage tenant flashcard decks",
	constants.PermFlashcardsStudy:        "Study flashcards",

	constants.PermMediaUpload: "Upload media",
	constants.PermMediaManage: "Manage media",
}

type Seeder struct {
	permissionRepo permission.Repository
	logger         logger.Interface
}

func NewSeeder(permissionRepo permission.Repository) *Seeder {
	return &Seeder{
		permissionRepo: permissionRepo,
		logger:         logger.NewLogger().With("component", "seed"),
	}
}

// SeedPermissions inserts catalog entries that do not exist yet.
func (s *Seeder) SeedPermissions(ctx context.Context) error {
	created := 0

	for name, description := range catalog {
		existing, err := s.permissionRepo.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to look up permission %s: %w", name, err)
		}
		if existing != nil {
			continue
		}

		perm, err := permission.NewPermission(name, description)
		if err != nil {
			return fmt.Errorf("invalid catalog entry %s: %w", name, err)
		}

		if err := s.permissionRepo.Create(ctx, perm); err != nil {
			return fmt.Errorf("failed to create permission %s: %w", name, err)
		}
		created++
	}

	s.logger.Infow("permission catalog seeded",
		"total", len(catalog),
		"created", created)

	return nil
}
