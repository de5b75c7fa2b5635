package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub/internal/domain/permission"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

type PermissionHandler struct {
	permissionRepo permission.Repository
	logger         logger.Interface
}

func NewPermissionHandler(permissionRepo permission.Repository, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}

type PermissionResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	IsActive     bool   `json:"is_active"`
	IsDeprecated bool   `json:"is_deprecated"`
}

// ListCatalog godoc
// @Summary List the permission catalog
// @Description Returns every permission in the global catalog, including deprecated entries
// @Tags permissions
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=[]PermissionResponse}
// @Failure 403 {object} utils.APIResponse
// @Router /permissions [get]
func (h *PermissionHandler) ListCatalog(c *gin.Context) {
	perms, err := h.permissionRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list permission catalog", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		items = append(items, PermissionResponse{
			ID:           p.ID(),
			Name:         p.Name(),
			Description:  p.Description(),
			Category:     p.Category(),
			IsActive:     p.IsActive(),
			IsDeprecated: p.IsDeprecated(),
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "success", items)
}
