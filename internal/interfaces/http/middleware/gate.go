package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/authz"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/utils"
)

const (
	contextKeyGateResult    = "gate_result"
	contextKeyTenantContext = "tenant_context"
)

// GateMiddleware adapts the authorization gates to Gin. Each method wraps
// one gate; a denial is rendered as the gate's AppError and the chain is
// aborted. The passing gate result is stored on the request context for
// handlers that need the resolved permission set.
type GateMiddleware struct {
	gates    *authz.Gates
	resolver *authz.Resolver
}

func NewGateMiddleware(gates *authz.Gates, resolver *authz.Resolver) *GateMiddleware {
	return &GateMiddleware{
		gates:    gates,
		resolver: resolver,
	}
}

// RequireTenantContext resolves the caller's tenant context and stores it
// for downstream handlers. Accounts without a tenant are rejected with the
// onboarding redirect.
func (m *GateMiddleware) RequireTenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		tc, appErr := m.resolver.ResolveTenantContext(c.Request.Context(), identity)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyTenantContext, tc)
		c.Next()
	}
}

func (m *GateMiddleware) RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		tenantID, appErr := m.resolver.ResolveTenantID(c.Request.Context(), identity)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		result, appErr := m.gates.RequirePermission(c.Request.Context(), identity, name, tenantID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

func (m *GateMiddleware) RequireAnyPermission(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		tenantID, appErr := m.resolver.ResolveTenantID(c.Request.Context(), identity)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		result, appErr := m.gates.RequireAnyPermission(c.Request.Context(), identity, names, tenantID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

func (m *GateMiddleware) RequireAllPermissions(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		tenantID, appErr := m.resolver.ResolveTenantID(c.Request.Context(), identity)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		result, appErr := m.gates.RequireAllPermissions(c.Request.Context(), identity, names, tenantID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

func (m *GateMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		tenantID, appErr := m.resolver.ResolveTenantID(c.Request.Context(), identity)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		result, appErr := m.gates.RequireAdmin(c.Request.Context(), identity, tenantID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

// RequireTenantMembership gates on an active role in the tenant named by
// the given path parameter.
func (m *GateMiddleware) RequireTenantMembership(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		tenantID, ok := parseUintParam(c, param)
		if !ok {
			return
		}

		result, appErr := m.gates.RequireTenantMembership(c.Request.Context(), identity, tenantID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

// RequireCanEditCourse gates on edit access to the course named by the
// given path parameter.
func (m *GateMiddleware) RequireCanEditCourse(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		courseID, ok := parseUintParam(c, param)
		if !ok {
			return
		}

		result, appErr := m.gates.RequireCanEditCourse(c.Request.Context(), identity, courseID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

// RequireCanEditQuiz gates on edit access to the quiz named by the given
// path parameter.
func (m *GateMiddleware) RequireCanEditQuiz(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)

		quizID, ok := parseUintParam(c, param)
		if !ok {
			return
		}

		result, appErr := m.gates.RequireCanEditQuiz(c.Request.Context(), identity, quizID)
		if appErr != nil {
			abortWithAppError(c, appErr)
			return
		}

		c.Set(contextKeyGateResult, result)
		c.Next()
	}
}

// GateResultFromContext returns the result stored by a passing gate, or nil
// when no gate ran on this route.
func GateResultFromContext(c *gin.Context) *authz.GateResult {
	value, exists := c.Get(contextKeyGateResult)
	if !exists {
		return nil
	}
	result, _ := value.(*authz.GateResult)
	return result
}

// TenantContextFromContext returns the tenant context stored by
// RequireTenantContext, or nil when it did not run.
func TenantContextFromContext(c *gin.Context) *authz.TenantContext {
	value, exists := c.Get(contextKeyTenantContext)
	if !exists {
		return nil
	}
	tc, _ := value.(*authz.TenantContext)
	return tc
}

func parseUintParam(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+param)
		c.Abort()
		return 0, false
	}
	return uint(value), true
}

func abortWithAppError(c *gin.Context, appErr *errors.AppError) {
	utils.ErrorResponseWithError(c, appErr)
	c.Abort()
}
