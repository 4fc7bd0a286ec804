package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 1. 公共路由(无需登录)
	public := router.Group("/api/auth")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/logout", c.auth.Logout)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(s.user))
	{
		authGroup.GET("/users/me", c.user.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)

		authGroup.GET("/quizzes", c.quiz.ListQuizzes)
		authGroup.GET("/quizzes/:id", c.quiz.GetQuiz)

		authGroup.POST("/quizzes/:id/attempts", c.attempt.StartAttempt)
		authGroup.GET("/attempts", c.attempt.ListMyAttempts)
		authGroup.GET("/attempts/:id", c.attempt.GetAttempt)
		authGroup.PATCH("/attempts/:id/answers", c.attempt.Autosave)
		authGroup.POST("/attempts/:id/submit", c.attempt.Submit)
	}

	// 3. 管理员路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(s.user), middleware.AdminMiddleware())
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes/:id", c.quiz.GetQuizDetail)
		admin.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		admin.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		admin.GET("/quizzes/:id/preview", c.quiz.PreviewExam)

		admin.GET("/quizzes/:id/attempts", c.attempt.ListQuizAttempts)
		admin.POST("/attempts/:id/reopen", c.attempt.Reopen)
	}
}
