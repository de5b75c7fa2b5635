package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/constants"
)

// ContentRouteConfig holds dependencies for course and quiz routes.
type ContentRouteConfig struct {
	CourseHandler  *handlers.CourseHandler
	QuizHandler    *handlers.QuizHandler
	AuthMiddleware *middleware.AuthMiddleware
	Gates          *middleware.GateMiddleware
}

// SetupContentRoutes configures course and quiz management. Reads gate on
// the read permission; mutations of existing content go through the
// per-resource edit gates, which also cover tenant ownership.
func SetupContentRoutes(engine *gin.Engine, cfg *ContentRouteConfig) {
	courses := engine.Group("/courses")
	courses.Use(cfg.AuthMiddleware.RequireAuth())
	{
		courses.GET("", cfg.Gates.RequirePermission(constants.PermCoursesRead), cfg.CourseHandler.ListCourses)
		courses.GET("/:id", cfg.Gates.RequirePermission(constants.PermCoursesRead), cfg.CourseHandler.GetCourse)
		courses.POST("", cfg.Gates.RequirePermission(constants.PermCoursesCreate), cfg.CourseHandler.CreateCourse)
		courses.PUT("/:id", cfg.Gates.RequireCanEditCourse("id"), cfg.CourseHandler.UpdateCourse)
		courses.POST("/:id/share", cfg.Gates.RequireCanEditCourse("id"), cfg.CourseHandler.ShareCourse)
		courses.DELETE("/:id", cfg.Gates.RequireCanEditCourse("id"), cfg.CourseHandler.DeleteCourse)
	}

	quizzes := engine.Group("/quizzes")
	quizzes.Use(cfg.AuthMiddleware.RequireAuth())
	{
		quizzes.GET("", cfg.Gates.RequirePermission(constants.PermQuizzesRead), cfg.QuizHandler.ListQuizzes)
		quizzes.GET("/:id", cfg.Gates.RequirePermission(constants.PermQuizzesRead), cfg.QuizHandler.GetQuiz)
		quizzes.POST("", cfg.Gates.RequirePermission(constants.PermQuizzesCreate), cfg.QuizHandler.CreateQuiz)
		quizzes.PUT("/:id", cfg.Gates.RequireCanEditQuiz("id"), cfg.QuizHandler.UpdateQuiz)
		quizzes.POST("/:id/share", cfg.Gates.RequireCanEditQuiz("id"), cfg.QuizHandler.ShareQuiz)
		quizzes.DELETE("/:id", cfg.Gates.RequireCanEditQuiz("id"), cfg.QuizHandler.DeleteQuiz)
	}
}
