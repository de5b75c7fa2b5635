package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/interfaces/http/middleware"
)

// OnboardingRouteConfig holds dependencies for onboarding routes.
type OnboardingRouteConfig struct {
	OnboardingHandler *handlers.OnboardingHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// SetupOnboardingRoutes configures the tenant join/create flow. These run
// behind authentication only; the caller by definition has no tenant yet.
func SetupOnboardingRoutes(engine *gin.Engine, cfg *OnboardingRouteConfig) {
	onboarding := engine.Group("/onboarding")
	onboarding.Use(cfg.AuthMiddleware.RequireAuth())
	{
		onboarding.POST("/join", cfg.OnboardingHandler.JoinTenant)
		onboarding.POST("/tenants", cfg.OnboardingHandler.CreateTenant)
	}
}
