package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub/internal/domain/tenant"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

// TenantHandler serves the tenant profile to its members.
type TenantHandler struct {
	tenantRepo tenant.Repository
	logger     logger.Interface
}

func NewTenantHandler(tenantRepo tenant.Repository, logger logger.Interface) *TenantHandler {
	return &TenantHandler{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

type TenantResponse struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	SubscriptionTier   string `json:"subscription_tier"`
	SubscriptionStatus string `json:"subscription_status"`
}

// GetTenant godoc
// @Summary Get a tenant profile
// @Description Returns the tenant profile; requires an active role in the tenant
// @Tags tenants
// @Produce json
// @Security Bearer
// @Param id path int true "Tenant ID"
// @Success 200 {object} utils.APIResponse{data=TenantResponse}
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tn, err := h.tenantRepo.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if tn == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("tenant not found"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", TenantResponse{
		ID:                 tn.ID(),
		Name:               tn.Name(),
		Slug:               tn.Slug(),
		SubscriptionTier:   tn.SubscriptionTier(),
		SubscriptionStatus: tn.SubscriptionStatus(),
	})
}
