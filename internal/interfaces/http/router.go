package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"learnhub/internal/application/accountsvc"
	"learnhub/internal/application/authz"
	"learnhub/internal/application/contentsvc"
	"learnhub/internal/application/provisioning"
	"learnhub/internal/application/rolesvc"
	"learnhub/internal/infrastructure/auth"
	"learnhub/internal/infrastructure/config"
	"learnhub/internal/infrastructure/email"
	"learnhub/internal/infrastructure/ratelimit"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/interfaces/http/routes"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/services/markdown"

	_ "learnhub/docs"
)

// Router wires every layer together: repositories, application services,
// authorization gates, middleware, and handlers.
type Router struct {
	engine *gin.Engine

	authHandler       *handlers.AuthHandler
	onboardingHandler *handlers.OnboardingHandler
	roleHandler       *handlers.RoleHandler
	permissionHandler *handlers.PermissionHandler
	tenantHandler     *handlers.TenantHandler
	courseHandler     *handlers.CourseHandler
	quizHandler       *handlers.QuizHandler

	authMiddleware *middleware.AuthMiddleware
	gateMiddleware *middleware.GateMiddleware
	rateLimiter    *middleware.RateLimitMiddleware

	logger logger.Interface
	cfg    *config.Config
}

// NewRouter builds the full dependency graph on top of the shared database
// and Redis handles.
func NewRouter(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	accountRepo := repository.NewAccountRepository(database)
	tenantRepo := repository.NewTenantRepository(database)
	roleRepo := repository.NewTenantRoleRepository(database)
	permissionRepo := repository.NewPermissionRepository(database)
	userRoleRepo := repository.NewUserRoleRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	quizRepo := repository.NewQuizRepository(database)

	txManager := db.NewTransactionManager(database)

	provisioner := provisioning.NewProvisioner(tenantRepo, roleRepo, userRoleRepo, permissionRepo, txManager)
	resolver := authz.NewResolver(accountRepo, tenantRepo, provisioner)
	aggregator := authz.NewAggregator(userRoleRepo)
	gates := authz.NewGates(accountRepo, userRoleRepo, courseRepo, quizRepo, aggregator)

	var emailService email.Service
	if cfg.Email.Enabled() {
		emailService = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		})
	} else {
		emailService = email.NewNoopEmailService()
	}

	accountService := accountsvc.NewService(accountRepo, tenantRepo)
	roleService := rolesvc.NewService(tenantRepo, roleRepo, userRoleRepo, permissionRepo, accountRepo, emailService)
	contentService := contentsvc.NewService(courseRepo, quizRepo, markdown.NewService())

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)
	providerClient := auth.NewIdentityProviderClient(cfg.Auth.Provider)

	secureCookies := cfg.Server.Mode == "release"

	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	gateMiddleware := middleware.NewGateMiddleware(gates, resolver)
	rateLimiter := middleware.NewRateLimitMiddleware(ratelimit.NewRedisRateLimiter(redisClient), cfg.RateLimit)

	return &Router{
		engine: engine,
		authHandler: handlers.NewAuthHandler(
			providerClient, jwtService, accountService, resolver, aggregator,
			cfg.Server.FrontendCallbackURL, secureCookies, log),
		onboardingHandler: handlers.NewOnboardingHandler(accountService, provisioner, log),
		roleHandler:       handlers.NewRoleHandler(roleService, aggregator, log),
		permissionHandler: handlers.NewPermissionHandler(permissionRepo, log),
		tenantHandler:     handlers.NewTenantHandler(tenantRepo, log),
		courseHandler:     handlers.NewCourseHandler(contentService, log),
		quizHandler:       handlers.NewQuizHandler(contentService, log),
		authMiddleware:    authMiddleware,
		gateMiddleware:    gateMiddleware,
		rateLimiter:       rateLimiter,
		logger:            log,
		cfg:               cfg,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.authHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.rateLimiter,
	})

	routes.SetupOnboardingRoutes(r.engine, &routes.OnboardingRouteConfig{
		OnboardingHandler: r.onboardingHandler,
		AuthMiddleware:    r.authMiddleware,
	})

	routes.SetupRoleRoutes(r.engine, &routes.RoleRouteConfig{
		RoleHandler:       r.roleHandler,
		PermissionHandler: r.permissionHandler,
		TenantHandler:     r.tenantHandler,
		AuthMiddleware:    r.authMiddleware,
		Gates:             r.gateMiddleware,
	})

	routes.SetupContentRoutes(r.engine, &routes.ContentRouteConfig{
		CourseHandler:  r.courseHandler,
		QuizHandler:    r.quizHandler,
		AuthMiddleware: r.authMiddleware,
		Gates:          r.gateMiddleware,
	})
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
