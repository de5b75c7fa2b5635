package errors

import "net/http"

// Authorization-specific error types
const (
	ErrorTypeUnauthenticated  ErrorType = "unauthenticated"
	ErrorTypePermissionDenied ErrorType = "permission_denied"
	ErrorTypeAccessDenied     ErrorType = "access_denied"
	ErrorTypeNoTenantAssigned ErrorType = "no_tenant_assigned"
)

// NewUnauthenticatedError creates the failure returned when no valid
// identity was presented. Never retried, never recovered locally.
func NewUnauthenticatedError(details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthenticated,
		Message: "Authentication required",
		Code:    http.StatusUnauthorized,
		Details: firstDetail(details),
	}
}

// NewPermissionDeniedError creates the failure returned when an
// authenticated account lacks a required capability. required carries the
// permission name(s) that were checked; missing is populated by the
// all-of variant with the specific names the account does not hold.
func NewPermissionDeniedError(message string, required []string, missing []string) *AppError {
	return &AppError{
		Type:     ErrorTypePermissionDenied,
		Message:  message,
		Code:     http.StatusForbidden,
		Required: required,
		Missing:  missing,
	}
}

// NewAccessDeniedError creates the membership failure, distinct from
// PermissionDenied: the caller is not even a member of the tenant owning
// the resource.
func NewAccessDeniedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAccessDenied,
		Message: message,
		Code:    http.StatusForbidden,
	}
}

// NewNoTenantAssignedError creates the recoverable onboarding-incomplete
// failure. It is an expected state, not a server error; callers are
// expected to redirect to redirectTo.
func NewNoTenantAssignedError(redirectTo string) *AppError {
	return &AppError{
		Type:       ErrorTypeNoTenantAssigned,
		Message:    "No tenant assigned",
		Code:       http.StatusBadRequest,
		Details:    "Complete onboarding to join a tenant",
		RedirectTo: redirectTo,
	}
}

// IsPermissionDenied checks if the error is a permission denial
func IsPermissionDenied(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypePermissionDenied
}

// IsNoTenantAssigned checks if the error is the onboarding-incomplete state
func IsNoTenantAssigned(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNoTenantAssigned
}

// IsUnauthenticated checks if the error is an authentication failure
func IsUnauthenticated(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && (appErr.Type == ErrorTypeUnauthenticated || appErr.Type == ErrorTypeUnauthorized)
}
