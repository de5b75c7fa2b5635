package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/constants"
)

// RoleRouteConfig holds dependencies for role administration routes.
type RoleRouteConfig struct {
	RoleHandler       *handlers.RoleHandler
	PermissionHandler *handlers.PermissionHandler
	TenantHandler     *handlers.TenantHandler
	AuthMiddleware    *middleware.AuthMiddleware
	Gates             *middleware.GateMiddleware
}

// SetupRoleRoutes configures role administration, the permission catalog,
// and the tenant profile. Every route is gated on a specific permission.
func SetupRoleRoutes(engine *gin.Engine, cfg *RoleRouteConfig) {
	roles := engine.Group("/roles")
	roles.Use(cfg.AuthMiddleware.RequireAuth())
	{
		roles.GET("", cfg.Gates.RequirePermission(constants.PermRolesRead), cfg.RoleHandler.ListRoles)
		roles.POST("", cfg.Gates.RequirePermission(constants.PermRolesCreate), cfg.RoleHandler.CreateRole)
		roles.GET("/:id", cfg.Gates.RequirePermission(constants.PermRolesRead), cfg.RoleHandler.GetRole)
		roles.PUT("/:id", cfg.Gates.RequirePermission(constants.PermRolesUpdate), cfg.RoleHandler.UpdateRole)
		roles.DELETE("/:id", cfg.Gates.RequirePermission(constants.PermRolesDelete), cfg.RoleHandler.DeactivateRole)

		roles.POST("/:id/permissions", cfg.Gates.RequirePermission(constants.PermRolesUpdate), cfg.RoleHandler.AttachPermissions)
		roles.DELETE("/:id/permissions", cfg.Gates.RequirePermission(constants.PermRolesUpdate), cfg.RoleHandler.DetachPermissions)

		roles.POST("/:id/assignments", cfg.Gates.RequirePermission(constants.PermRolesAssign), cfg.RoleHandler.AssignRole)
		roles.DELETE("/:id/assignments/:accountID", cfg.Gates.RequirePermission(constants.PermRolesAssign), cfg.RoleHandler.RemoveRole)
	}

	users := engine.Group("/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.GET("/:id/roles", cfg.Gates.RequirePermission(constants.PermRolesRead), cfg.RoleHandler.ListUserRoles)
		users.GET("/:id/permissions", cfg.Gates.RequirePermission(constants.PermRolesRead), cfg.RoleHandler.ListUserPermissions)
	}

	permissions := engine.Group("/permissions")
	permissions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// The catalog is global, so browsing it is an admin concern.
		permissions.GET("", cfg.Gates.RequireAdmin(), cfg.PermissionHandler.ListCatalog)
	}

	tenants := engine.Group("/tenants")
	tenants.Use(cfg.AuthMiddleware.RequireAuth())
	{
		tenants.GET("/:id", cfg.Gates.RequireTenantMembership("id"), cfg.TenantHandler.GetTenant)
	}
}
