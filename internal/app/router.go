package app

import (
	"github.com/aelied/structureality-server/docs"
	"github.com/aelied/structureality-server/internal/config"
	"github.com/aelied/structureality-server/internal/middleware"
	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/reset/request", c.auth.RequestReset)
		public.POST("/auth/reset", c.auth.ResetPassword)

		public.GET("/topics", c.content.Topics)
		public.GET("/lessons", c.content.ListLessons)
		public.GET("/lessons/:id", c.content.GetLesson)
		public.GET("/quizzes", c.content.ListQuizzes)
		public.GET("/scenarios", c.scenario.List)
		public.GET("/scenarios/:topic", c.scenario.Get)
	}

	// 登录用户路由
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.PUT("/auth/password", c.auth.ChangePassword)

		// 进度读写只允许本人或管理员
		owned := authorized.Group("/")
		owned.Use(middleware.SelfOrAdmin("username"))
		{
			owned.POST("/progress/:username/sync", c.progress.Sync)
			owned.PUT("/progress/:username/lessons", c.progress.UpdateLessons)
			owned.GET("/progress/:username", c.progress.Get)
			owned.GET("/users/:username/summary", c.user.GetSummary)
			owned.GET("/users/:username", c.user.Get)
			owned.PUT("/users/:username", c.user.UpdateProfile)
		}
	}

	// 管理员路由
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/progress", c.progress.GetAll)
		admin.GET("/users", c.user.List)
		admin.DELETE("/users/:username", c.user.Delete)

		admin.POST("/lessons", c.content.CreateLesson)
		admin.PUT("/lessons/:id", c.content.UpdateLesson)
		admin.DELETE("/lessons/:id", c.content.DeleteLesson)
		admin.POST("/lessons/:id/media", c.content.UploadLessonMedia)

		admin.POST("/quizzes", c.content.CreateQuiz)
		admin.DELETE("/quizzes/:id", c.content.DeleteQuiz)

		admin.PUT("/scenarios/:topic", c.scenario.Save)

		admin.GET("/analytics", c.analytics.Report)
		admin.GET("/stats", c.analytics.Summary)
	}
}
