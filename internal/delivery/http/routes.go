package http

import (
	"github.com/bidwriter/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(NewIPRateLimiter(cfg.RateLimit.PerIP).Middleware())

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/config", handler.GetConfig)

		projects := v1.Group("/projects")
		{
			projects.POST("/parse", handler.ParseProject)
			projects.POST("/fetch", handler.FetchProject)
		}

		bids := v1.Group("/bids")
		{
			bids.POST("/generate", handler.GenerateBid)
			bids.POST("/smart-generate", handler.SmartGenerateBid)
			bids.POST("/refine", handler.RefineBid)
		}

		memory := v1.Group("/memory")
		{
			memory.GET("/stats", handler.MemoryStats)
			memory.POST("/result", handler.UpdateBidResult)
		}
	}

	return router
}
