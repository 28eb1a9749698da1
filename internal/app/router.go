package app

import (
	_ "eunacom_backend/docs"
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/middleware"
	"eunacom_backend/internal/model"
	"eunacom_backend/pkg/monitoring"
	"eunacom_backend/pkg/security"
	"eunacom_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(func() (int, time.Duration) {
		return cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	}))
	router.Use(monitoring.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", c.auth.Register)
		api.POST("/auth/login", c.auth.Login)

		authGroup := api.Group("")
		authGroup.Use(middleware.AuthMiddleware(cfg))
		authGroup.Use(middleware.ActivityMiddleware(repos.user))
		{
			authGroup.GET("/auth/profile", c.auth.GetProfile)
			authGroup.GET("/packages", c.pkg.List)
		}

		admin := authGroup.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			reviewQueue := admin.Group("/qa-sweep/review-queue")
			{
				reviewQueue.GET("", c.reviewQueue.List)
				reviewQueue.POST("/:id/approve", c.reviewQueue.Approve)
				reviewQueue.POST("/:id/reject", c.reviewQueue.Reject)
			}

			qaControl := admin.Group("/qa-control")
			{
				qaControl.GET("/variations", c.qaControl.ListVariations)
				qaControl.DELETE("/variations", c.qaControl.DeleteVariations)
				qaControl.GET("/runs", c.qaControl.ListRuns)
				qaControl.GET("/runs/:id", c.qaControl.GetRun)
				qaControl.GET("/dashboard", c.qaControl.Dashboard)
				qaControl.GET("/doctor", c.qaControl.Doctor)
			}

			payments := admin.Group("/payments")
			{
				payments.GET("", c.payment.List)
				payments.POST("", c.payment.Grant)
				payments.PUT("/:id", c.payment.Update)
				payments.DELETE("/:id", c.payment.Delete)
			}

			admin.POST("/packages", c.pkg.Create)

			topics := admin.Group("/topics")
			{
				topics.POST("/upload", c.topic.Upload)
				topics.GET("/specialties", c.topic.ListSpecialties)
				topics.GET("", c.topic.ListTopics)
			}
		}
	}
}
