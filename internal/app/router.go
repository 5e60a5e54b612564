package app

import (
	"devpath_backend/docs"
	"devpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 学习者与进度引擎
		api.POST("/learners", c.learner.Register)
		api.GET("/learners/:id", c.learner.GetLearner)
		api.GET("/learners/:id/dashboard", c.progress.GetDashboard)
		api.POST("/learners/:id/progress", c.progress.UpdateProgress)
		api.POST("/learners/:id/checkin", c.progress.Checkin)
		api.POST("/learners/:id/badges", c.progress.GrantBadge)
		api.GET("/leaderboard", c.learner.GetLeaderboard)

		// 内容目录（只读）
		api.GET("/topics", c.content.GetTopics)
		api.GET("/topics/:slug", c.content.GetTopic)

		// 代码游乐场
		playground := api.Group("/playground")
		{
			playground.GET("/runtimes", c.playground.GetRuntimes)
			playground.POST("/execute", c.playground.Execute)
		}
	}

	// 内容维护接口
	admin := router.Group("/api/admin")
	{
		admin.POST("/topics", c.content.UpsertTopic)
		admin.POST("/topics/:slug/asset", c.content.UploadTopicAsset)
	}
}
