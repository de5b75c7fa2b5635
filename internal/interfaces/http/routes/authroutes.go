package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimitMiddleware
}

// SetupAuthRoutes configures the identity-provider login flow and token
// lifecycle routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.GET("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)
		auth.GET("/callback", cfg.RateLimiter.Limit(), cfg.AuthHandler.Callback)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
		auth.GET("/permissions", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Permissions)
		auth.GET("/check-permission", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.CheckPermission)
	}
}
