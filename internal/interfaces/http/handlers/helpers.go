package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/authz"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/utils"
)

func identityFrom(c *gin.Context) *authz.Identity {
	return middleware.IdentityFromContext(c)
}

// tenantScopeFrom returns the tenant the route gate resolved for the
// caller, writing a 403 when no tenant scope was established. Handlers
// that mutate tenant-owned records must scope every lookup to it.
func tenantScopeFrom(c *gin.Context) (uint, bool) {
	result := middleware.GateResultFromContext(c)
	if result == nil || result.TenantID == nil {
		utils.ErrorResponse(c, http.StatusForbidden, "no tenant context")
		return 0, false
	}
	return *result.TenantID, true
}

// parseIDParam parses a uint path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return uint(value), true
}
