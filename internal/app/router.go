package app

import (
	"agent_academy_backend/docs"
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/middleware"
	"agent_academy_backend/internal/model"
	"agent_academy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		challenges := authGroup.Group("/challenges")
		{
			challenges.GET("", c.challenge.List)
			challenges.GET("/:id", c.challenge.Get)
			challenges.POST("/:id/start", c.challenge.Start)
			challenges.POST("/:id/hints", c.challenge.UnlockHint)
			challenges.POST("/:id/submit", c.challenge.Submit)
		}

		authGroup.GET("/progress", c.achievement.GetProgress)
		authGroup.GET("/achievements", c.achievement.List)
		authGroup.GET("/achievements/leaderboard", c.achievement.Leaderboard)

		tutor := authGroup.Group("/tutor")
		{
			tutor.POST("/conversations", c.tutor.Initialize)
			tutor.GET("/conversations/:id/messages", c.tutor.GetMessages)
			tutor.POST("/conversations/:id/messages", c.tutor.SendMessage)
		}

		teacherGroup := authGroup.Group("")
		teacherGroup.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacherGroup.POST("/challenges", c.challenge.Create)
			teacherGroup.PUT("/challenges/:id", c.challenge.Update)

			teacherGroup.GET("/tutor/flagged", c.tutor.ListFlagged)
			teacherGroup.POST("/tutor/conversations/:id/intervene", c.tutor.Intervene)
			teacherGroup.POST("/tutor/conversations/:id/resolve", c.tutor.Resolve)
		}
	}
}
