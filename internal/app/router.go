package app

import (
	"take_exam_backend/internal/config"
	"take_exam_backend/internal/middleware"
	"take_exam_backend/internal/util"
	"take_exam_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		takeExam := authGroup.Group("/take-exam")
		{
			// 教师端：建卷
			takeExam.POST("", middleware.RoleMiddleware(util.Teacher), c.exam.CreateExam)

			// 学生端
			takeExam.GET("/:examId", c.exam.GetExam)
			takeExam.GET("/:examId/questions", c.exam.GetStudentQuestions)
			takeExam.POST("/submit/:examId", c.progress.SubmitAnswer)
			takeExam.POST("/calculate/:examId", c.progress.CalculateProgress)
			takeExam.GET("/progress/:examId", c.progress.GetProgress)
		}
	}
}
