package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dynbilliards/backend/internal/api/handlers"
	"github.com/dynbilliards/backend/internal/config"
	"github.com/dynbilliards/backend/internal/middleware"
	"github.com/dynbilliards/backend/internal/sim"
	"github.com/dynbilliards/backend/internal/store"
	"github.com/dynbilliards/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, manager *sim.Manager, hub *ws.Hub, st *store.Store, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Run endpoints
		runs := v1.Group("/runs")
		{
			runs.POST("", handlers.CreateRun(manager, cfg))
			runs.GET("/:token", handlers.GetRun(manager))
			runs.GET("/:token/preview", handlers.PreviewRun(manager))
			runs.GET("/:token/ws", handlers.HandleRunWebSocket(hub, manager))

			// Mutating endpoints require the run's access token
			controlled := runs.Group("", handlers.RequireRunToken(cfg))
			{
				controlled.POST("/:token/step", handlers.StepRun(manager, cfg))
				controlled.POST("/:token/play", handlers.PlayRun(manager))
				controlled.POST("/:token/pause", handlers.PauseRun(manager))
			}
		}

		// Admin endpoints
		adminGroup := v1.Group("/admin", handlers.RequireAdmin(cfg))
		{
			adminGroup.GET("/runs", handlers.AdminListRuns(manager, st))
			adminGroup.DELETE("/runs/:token", handlers.AdminDeleteRun(manager))
		}
	}
}
