package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/accountsvc"
	"learnhub/internal/application/provisioning"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

// OnboardingHandler completes the first-login flow: an authenticated
// account without a tenant either joins an existing tenant by slug or
// founds a new one. Either way the account leaves with a default role.
type OnboardingHandler struct {
	accountService *accountsvc.Service
	provisioner    *provisioning.Provisioner
	logger         logger.Interface
}

func NewOnboardingHandler(
	accountService *accountsvc.Service,
	provisioner *provisioning.Provisioner,
	logger logger.Interface,
) *OnboardingHandler {
	return &OnboardingHandler{
		accountService: accountService,
		provisioner:    provisioner,
		logger:         logger,
	}
}

type JoinTenantRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required"`
}

// JoinTenant godoc
// @Summary Join a tenant
// @Description Attaches the caller's account to the tenant with the given slug and assigns the tenant's default role
// @Tags onboarding
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body JoinTenantRequest true "Tenant to join"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /onboarding/join [post]
func (h *OnboardingHandler) JoinTenant(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req JoinTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	acct, err := h.accountService.JoinTenant(c.Request.Context(), identity.AccountID, req.TenantSlug)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := h.provisioner.EnsureUserHasDefaultRole(c.Request.Context(), acct.ID(), *acct.TenantID()); err != nil {
		h.logger.Errorw("default role assignment failed after join",
			"error", err,
			"account_id", acct.ID(),
			"tenant_id", *acct.TenantID())
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "joined tenant", gin.H{
		"account_id": acct.ID(),
		"tenant_id":  acct.TenantID(),
	})
}

type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// CreateTenant godoc
// @Summary Create a tenant
// @Description Provisions a new tenant and attaches the founding account to it
// @Tags onboarding
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateTenantRequest true "New tenant"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /onboarding/tenants [post]
func (h *OnboardingHandler) CreateTenant(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tn, err := h.accountService.CreateTenant(c.Request.Context(), identity.AccountID, req.Name, req.Slug)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := h.provisioner.EnsureUserHasDefaultRole(c.Request.Context(), identity.AccountID, tn.ID()); err != nil {
		h.logger.Errorw("default role assignment failed after tenant creation",
			"error", err,
			"account_id", identity.AccountID,
			"tenant_id", tn.ID())
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"tenant_id": tn.ID(),
		"name":      tn.Name(),
		"slug":      tn.Slug(),
	}, "tenant created")
}
