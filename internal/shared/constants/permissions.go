package constants

// Permission names form a flat catalog of dotted capability strings. They are
// seeded into the permissions table and referenced by name everywhere else;
// there is no hierarchy between them.
const (
	PermUsersCreate = "users.create"
	PermUsersRead   = "users.read"
	PermUsersUpdate = "users.update"
	PermUsersDelete = "users.delete"

	PermQuizzesCreate = "quizzes.create"
	PermQuizzesRead   = "quizzes.read"
	PermQuizzesUpdate = "quizzes.update"
	PermQuizzesDelete = "quizzes.delete"

	PermCoursesCreate = "courses.create"
	PermCoursesRead   = "courses.read"
	PermCoursesUpdate = "courses.update"
	PermCoursesDelete = "courses.delete"

	PermCategoriesCreate = "categories.create"
	PermCategoriesRead   = "categories.read"
	PermCategoriesUpdate = "categories.update"
	PermCategoriesDelete = "categories.delete"

	PermRewardsCreate = "rewards.create"
	PermRewardsRead   = "rewards.read"
	PermRewardsUpdate = "rewards.update"
	PermRewardsDelete = "rewards.delete"

	PermPointsView   = "points.view"
	PermPointsManage = "points.manage"

	PermGamesRead   = "games.read"
	PermGamesManage = "games.manage"

	PermReportsView   = "reports.view"
	PermReportsExport = "reports.export"

	PermLeaderboardView = "leaderboard.view"

	PermAuditView = "audit.view"

	PermSettingsView   = "settings.view"
	PermSettingsUpdate = "settings.update"

	PermRolesCreate = "roles.create"
	PermRolesRead   = "roles.read"
	PermRolesUpdate = "roles.update"
	PermRolesDelete = "roles.delete"
	PermRolesAssign = "roles.assign"

	PermBillingView   = "billing.view"
	PermBillingManage = "billing.manage"

	PermDashboardAdmin   = "dashboard.admin"
	PermDashboardManager = "dashboard.manager"

	PermFlashcardsManageTenant = "flashcards.manage_tenant"
	PermFlashcardsStudy        = "flashcards.study"

	PermMediaUpload = "media.upload"
	PermMediaManage = "media.manage"
)

// AdminPermissions is the capability bundle that marks an account as
// admin-capable. Holding any one of these is sufficient; there is no
// dedicated admin role or flag.
var AdminPermissions = []string{
	PermUsersCreate,
	PermUsersUpdate,
	PermUsersDelete,
	PermDashboardAdmin,
	PermDashboardManager,
	PermRolesAssign,
	PermRolesCreate,
	PermSettingsUpdate,
	PermFlashcardsManageTenant,
}

// CourseEditPermissions and QuizEditPermissions are the resource-specific
// bundles checked by the edit gates, in addition to AdminPermissions.
var (
	CourseEditPermissions = []string{PermCoursesUpdate, PermCoursesCreate, PermCoursesDelete}
	QuizEditPermissions   = []string{PermQuizzesUpdate, PermQuizzesCreate, PermQuizzesDelete}
)

// GuestRoleAlias is the normalized alias of the built-in viewer role every
// tenant is guaranteed to have.
const GuestRoleAlias = "guest"

// GuestRoleName is the display name used when the role is created lazily.
const GuestRoleName = "Guest"

// GuestPermissions is the view-only set attached to the Guest role at
// bootstrap. Names missing from the catalog are skipped, not errors.
var GuestPermissions = []string{
	PermCategoriesRead,
	PermQuizzesRead,
	PermCoursesRead,
	PermRewardsRead,
	PermGamesRead,
	PermLeaderboardView,
	PermPointsView,
	PermUsersRead,
	PermRolesRead,
	PermSettingsView,
}
