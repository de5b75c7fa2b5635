package authz

import (
	"context"
	goerrors "errors"

	"learnhub/internal/shared/errors"
)

// ActionGates adapts the gate methods to plain error returns for server
// actions and background jobs that do not speak HTTP. The underlying checks
// are identical; only the failure signalling differs.
type ActionGates struct {
	gates *Gates
}

func NewActionGates(gates *Gates) *ActionGates {
	return &ActionGates{gates: gates}
}

// ErrUnauthenticated and friends let action callers branch on the denial
// class without reaching into AppError internals.
var (
	ErrUnauthenticated  = goerrors.New("unauthenticated")
	ErrPermissionDenied = goerrors.New("permission denied")
	ErrNotFound         = goerrors.New("not found")
)

func (a *ActionGates) RequireAuthForAction(ctx context.Context, identity *Identity) (*GateResult, error) {
	return toActionResult(a.gates.RequireAuth(ctx, identity))
}

func (a *ActionGates) RequirePermissionForAction(ctx context.Context, identity *Identity, name string, tenantID *uint) (*GateResult, error) {
	return toActionResult(a.gates.RequirePermission(ctx, identity, name, tenantID))
}

func (a *ActionGates) RequireAnyPermissionForAction(ctx context.Context, identity *Identity, names []string, tenantID *uint) (*GateResult, error) {
	return toActionResult(a.gates.RequireAnyPermission(ctx, identity, names, tenantID))
}

func (a *ActionGates) RequireAllPermissionsForAction(ctx context.Context, identity *Identity, names []string, tenantID *uint) (*GateResult, error) {
	return toActionResult(a.gates.RequireAllPermissions(ctx, identity, names, tenantID))
}

func (a *ActionGates) RequireAdminForAction(ctx context.Context, identity *Identity, tenantID *uint) (*GateResult, error) {
	return toActionResult(a.gates.RequireAdmin(ctx, identity, tenantID))
}

func (a *ActionGates) RequireTenantMembershipForAction(ctx context.Context, identity *Identity, tenantID uint) (*GateResult, error) {
	return toActionResult(a.gates.RequireTenantMembership(ctx, identity, tenantID))
}

func (a *ActionGates) RequireCanEditCourseForAction(ctx context.Context, identity *Identity, courseID uint) (*GateResult, error) {
	return toActionResult(a.gates.RequireCanEditCourse(ctx, identity, courseID))
}

func (a *ActionGates) RequireCanEditQuizForAction(ctx context.Context, identity *Identity, quizID uint) (*GateResult, error) {
	return toActionResult(a.gates.RequireCanEditQuiz(ctx, identity, quizID))
}

// toActionResult converts a gate denial to a sentinel-wrapped plain error
// whose message is the human-readable denial text.
func toActionResult(result *GateResult, appErr *errors.AppError) (*GateResult, error) {
	if appErr == nil {
		return result, nil
	}

	var sentinel error
	switch {
	case errors.IsUnauthenticated(appErr):
		sentinel = ErrUnauthenticated
	case errors.IsPermissionDenied(appErr), appErr.Type == errors.ErrorTypeAccessDenied:
		sentinel = ErrPermissionDenied
	case errors.IsNotFoundError(appErr):
		sentinel = ErrNotFound
	default:
		return nil, goerrors.New(appErr.Message)
	}

	return nil, joinSentinel(sentinel, appErr.Message)
}

type actionError struct {
	sentinel error
	message  string
}

func (e *actionError) Error() string {
	return e.message
}

func (e *actionError) Unwrap() error {
	return e.sentinel
}

func joinSentinel(sentinel error, message string) error {
	return &actionError{sentinel: sentinel, message: message}
}
