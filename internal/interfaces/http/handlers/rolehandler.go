package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/authz"
	"learnhub/internal/application/rolesvc"
	"learnhub/internal/domain/permission"
	"learnhub/internal/domain/tenant"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

// RoleHandler exposes tenant role administration. Route-level gates have
// already established the caller's permissions by the time these run.
type RoleHandler struct {
	roleService *rolesvc.Service
	aggregator  *authz.Aggregator
	logger      logger.Interface
}

func NewRoleHandler(roleService *rolesvc.Service, aggregator *authz.Aggregator, logger logger.Interface) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		aggregator:  aggregator,
		logger:      logger,
	}
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        string    `json:"name" binding:"max=100"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

type AssignRoleRequest struct {
	AccountID uint `json:"account_id" binding:"required"`
}

type RoleResponse struct {
	ID           uint      `json:"id"`
	TenantID     uint      `json:"tenant_id"`
	Name         string    `json:"name"`
	Alias        string    `json:"alias"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"is_active"`
	SlotPosition int       `json:"slot_position"`
	SlotExempt   bool      `json:"slot_exempt"`
	Permissions  []string  `json:"permissions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRoleResponse(role *tenant.Role, perms []*permission.Permission) RoleResponse {
	resp := RoleResponse{
		ID:           role.ID(),
		TenantID:     role.TenantID(),
		Name:         role.Name(),
		Alias:        role.Alias(),
		Description:  role.Description(),
		IsActive:     role.IsActive(),
		SlotPosition: role.SlotPosition(),
		SlotExempt:   role.SlotExempt(),
		CreatedAt:    role.CreatedAt(),
	}
	for _, p := range perms {
		resp.Permissions = append(resp.Permissions, p.Name())
	}
	return resp
}

// CreateRole godoc
// @Summary Create a role
// @Description Creates a slot-occupying role in the caller's tenant with the given permission bindings
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRoleRequest true "Role definition"
// @Success 201 {object} utils.APIResponse{data=RoleResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), rolesvc.CreateRoleInput{
		TenantID:        tenantID,
		Name:            req.Name,
		Description:     req.Description,
		PermissionNames: req.Permissions,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toRoleResponse(role, nil), "role created")
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security Bearer
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	pagination := utils.ParsePagination(c)
	filter := tenant.RoleFilter{
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	roles, total, err := h.roleService.ListRoles(c.Request.Context(), tenantID, filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		items = append(items, toRoleResponse(role, nil))
	}

	utils.ListSuccessResponse(c, items, total, pagination.Page, pagination.PageSize)
}

// GetRole godoc
// @Summary Get a role with its permissions
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=RoleResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, perms, err := h.roleService.GetRole(c.Request.Context(), tenantID, roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", toRoleResponse(role, perms))
}

// UpdateRole godoc
// @Summary Update a role
// @Description Renames a role and optionally replaces its permission bindings
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body UpdateRoleRequest true "Changes"
// @Success 200 {object} utils.APIResponse{data=RoleResponse}
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	input := rolesvc.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Permissions != nil {
		input.PermissionNames = *req.Permissions
		input.HasPermissions = true
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), tenantID, roleID, input)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role updated", toRoleResponse(role, nil))
}

// DeactivateRole godoc
// @Summary Deactivate a role
// @Description Turns the role off; its grants stop applying on the next permission check
// @Tags roles
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeactivateRole(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeactivateRole(c.Request.Context(), tenantID, roleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// AssignRole godoc
// @Summary Assign a role to an account
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body AssignRoleRequest true "Account to assign"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /roles/{id}/assignments [post]
func (h *RoleHandler) AssignRole(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	identity := identityFrom(c)
	assignedBy := ""
	if identity != nil {
		assignedBy = identity.ExternalID
	}

	if err := h.roleService.AssignRole(c.Request.Context(), tenantID, req.AccountID, roleID, assignedBy); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role assigned", nil)
}

type RolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// AttachPermissions godoc
// @Summary Attach permissions to a role
// @Description Adds catalog permissions to the role; unknown or already bound names are skipped
// @Tags roles
// @Accept json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body RolePermissionsRequest true "Permission names"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/permissions [post]
func (h *RoleHandler) AttachPermissions(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.roleService.AttachPermissions(c.Request.Context(), tenantID, roleID, req.Permissions); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "permissions attached", nil)
}

// DetachPermissions godoc
// @Summary Detach permissions from a role
// @Tags roles
// @Accept json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body RolePermissionsRequest true "Permission names"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/permissions [delete]
func (h *RoleHandler) DetachPermissions(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.roleService.DetachPermissions(c.Request.Context(), tenantID, roleID, req.Permissions); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "permissions detached", nil)
}

type AssignmentResponse struct {
	RoleID     uint      `json:"role_id"`
	TenantID   uint      `json:"tenant_id"`
	AssignedBy string    `json:"assigned_by,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

// ListUserRoles godoc
// @Summary List an account's role assignments
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Router /users/{id}/roles [get]
func (h *RoleHandler) ListUserRoles(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	assignments, err := h.roleService.ListAssignments(c.Request.Context(), accountID, &tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, AssignmentResponse{
			RoleID:     a.RoleID,
			TenantID:   a.TenantID,
			AssignedBy: a.AssignedBy,
			AssignedAt: a.AssignedAt,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "success", items)
}

// ListUserPermissions godoc
// @Summary List an account's effective permissions
// @Description Union of permission names across the account's active roles in the caller's tenant
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Router /users/{id}/permissions [get]
func (h *RoleHandler) ListUserPermissions(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	perms, err := h.aggregator.GetUserPermissions(c.Request.Context(), accountID, &tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	names := make([]string, 0, len(perms))
	for name := range perms {
		names = append(names, name)
	}

	utils.SuccessResponse(c, http.StatusOK, "success", gin.H{"permissions": names})
}

// RemoveRole godoc
// @Summary Remove a role from an account
// @Tags roles
// @Security Bearer
// @Param id path int true "Role ID"
// @Param accountID path int true "Account ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/assignments/{accountID} [delete]
func (h *RoleHandler) RemoveRole(c *gin.Context) {
	tenantID, ok := tenantScopeFrom(c)
	if !ok {
		return
	}

	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	accountID, ok := parseIDParam(c, "accountID")
	if !ok {
		return
	}

	if err := h.roleService.RemoveRole(c.Request.Context(), tenantID, accountID, roleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
