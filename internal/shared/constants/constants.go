package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderUserAgent     = "User-Agent"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// Context keys
	ContextKeyAccountID  = "account_id"
	ContextKeyExternalID = "external_id"
	ContextKeyRequestID  = "request_id"

	// Database table names
	TableAccounts              = "accounts"
	TableTenants               = "tenants"
	TableTenantRoles           = "tenant_roles"
	TablePermissions           = "permissions"
	TableTenantRolePermissions = "tenant_role_permissions"
	TableUserRoles             = "user_roles"
	TableCourses               = "courses"
	TableQuizzes               = "quizzes"

	// AssignedBy value used when the provisioner binds a role without an
	// acting administrator.
	AssignedBySystem = "system"

	// Path new members without a tenant are redirected to.
	OnboardingPath = "/onboarding"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgConflict            = "Resource already exists"
	ErrMsgAccountNotFound     = "Account not found"
	ErrMsgAccessDenied        = "Access denied"
	ErrMsgCourseEditDenied    = "You do not have access to edit this course"
	ErrMsgQuizEditDenied      = "You do not have access to edit this quiz"
	ErrMsgCourseEditNoPerm    = "You need permission to edit courses"
	ErrMsgQuizEditNoPerm      = "You need permission to edit quizzes"
)
