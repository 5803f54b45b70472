package app

import (
	"farsihub_backend/docs"
	"farsihub_backend/internal/config"
	"farsihub_backend/internal/middleware"
	"farsihub_backend/internal/model"
	"farsihub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Authenticated routes open to every gate outcome: the session
	// snapshot, the event stream, profile, logout, and account deletion
	// must work for pending and onboarding students too.
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg, a.services.session), middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/session", c.session.Get)
		authed.POST("/session/refresh", c.session.Refresh)
		authed.GET("/session/events", c.session.Events)
		authed.GET("/profile", c.auth.Profile)
		authed.POST("/logout", c.auth.Logout)
		authed.DELETE("/account", c.auth.DeleteAccount)
		authed.PUT("/user/year", c.user.SelectYear)
		authed.POST("/user/avatar/upload", c.user.UploadAvatar)
	}

	// Student area: approved students with a year, plus admins.
	student := router.Group("/api")
	student.Use(
		middleware.AuthMiddleware(cfg, a.services.session),
		middleware.ActivityMiddleware(repos.user),
		middleware.GateMiddleware(a.services.session, model.GateStudent),
	)
	{
		student.GET("/lectures", c.lecture.List)
		student.GET("/lectures/:id", c.lecture.Get)
		student.GET("/quizzes/:id", c.quiz.Get)
		student.POST("/quizzes/:id/attempt", c.quiz.StartAttempt)
		student.POST("/quizzes/:id/answer", c.quiz.Answer)
		student.POST("/quizzes/:id/finish", c.quiz.Finish)
		student.POST("/quizzes/:id/submit", c.quiz.Submit)
		student.GET("/submissions", c.submission.Mine)
	}

	// Admin console.
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg, a.services.session),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PUT("/users/:id", c.user.Update)
		admin.POST("/users/:id/approve", c.user.Approve)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.POST("/lectures", c.lecture.Create)
		admin.PUT("/lectures/:id", c.lecture.Update)
		admin.DELETE("/lectures/:id", c.lecture.Delete)

		admin.GET("/quizzes", c.quiz.ListAdmin)
		admin.POST("/quizzes", c.quiz.Create)
		admin.PUT("/quizzes/:id", c.quiz.Update)
		admin.DELETE("/quizzes/:id", c.quiz.Delete)

		admin.GET("/submissions", c.submission.List)
	}
}
