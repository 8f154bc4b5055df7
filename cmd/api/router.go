package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"creator-dashboard/internal/shared/middleware"
	"creator-dashboard/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCreatorRoutes(v1, c)
		setupScrapeRoutes(v1, c)
		setupSessionRoutes(v1, c)
		setupAnalyticsRoutes(v1, c)
	}

	return router
}

func setupCreatorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	creators := v1.Group("/creators")
	{
		creators.GET("", c.CreatorHandler.ListCreators)
		creators.POST("", c.CreatorHandler.CreateCreator)
		creators.GET("/stats", c.CreatorHandler.GetStats)
		creators.POST("/bulk-delete", c.CreatorHandler.BulkDeleteCreators)
		creators.POST("/import", c.CreatorHandler.ImportCreators)
		creators.POST("/export", c.CreatorHandler.ExportCreators)
		creators.GET("/duplicates", c.CreatorHandler.ScanDuplicates)
		creators.POST("/duplicates/merge", c.CreatorHandler.MergeDuplicates)
		creators.GET("/:id", c.CreatorHandler.GetCreator)
		creators.PUT("/:id", c.CreatorHandler.UpdateCreator)
		creators.DELETE("/:id", c.CreatorHandler.DeleteCreator)
	}
}

func setupScrapeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	scrape := v1.Group("/scrape")
	{
		scrape.POST("", c.ScrapeHandler.TriggerScrape)
		scrape.GET("/jobs", c.ScrapeHandler.ListJobs)
		scrape.GET("/jobs/:id", c.ScrapeHandler.GetJob)
	}
}

func setupSessionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sessions := v1.Group("/sessions")
	{
		sessions.GET("", c.SessionHandler.ListSessions)
		sessions.POST("", c.SessionHandler.CreateSession)
		sessions.PATCH("/:id", c.SessionHandler.UpdateSession)
		sessions.DELETE("/:id", c.SessionHandler.DeleteSession)
	}
}

func setupAnalyticsRoutes(v1 *gin.RouterGroup, c *container.Container) {
	analytics := v1.Group("/analytics")
	{
		analytics.POST("/events", c.AnalyticsHandler.TrackEvent)
		analytics.GET("/events", c.AnalyticsHandler.ListEvents)
		analytics.GET("/trends", c.AnalyticsHandler.GetTrends)
		analytics.GET("/dashboard", c.AnalyticsHandler.GetDashboard)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"version":  c.Config.App.Version,
			"time":     time.Now().UTC(),
		})
	}
}
