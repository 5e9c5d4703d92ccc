// Package routes defines the HTTP routes for the AskDoc Selection Service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipask/askdoc-service/internal/api/handlers"
	"github.com/clipask/askdoc-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	PresetsHandler  *handlers.PresetsHandler
	SettingsHandler *handlers.SettingsHandler
	ModelsHandler   *handlers.ModelsHandler
	ContextsHandler *handlers.ContextsHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes - all routes under /api/v1/askdoc
	v1 := r.Group("/api/v1/askdoc")
	{
		// Health check routes
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		// Credential lifecycle
		auth := v1.Group("/auth")
		{
			auth.POST("/exchange", cfg.AuthHandler.Exchange)
			auth.POST("/logout", cfg.AuthHandler.Logout)
			auth.GET("/status", cfg.AuthHandler.Status)
		}

		// Options collaborator: presets and settings
		presets := v1.Group("/presets")
		{
			presets.GET("", cfg.PresetsHandler.List)
			presets.POST("", cfg.PresetsHandler.Create)
			presets.GET("/:presetId", cfg.PresetsHandler.Get)
			presets.PUT("/:presetId", cfg.PresetsHandler.Update)
			presets.DELETE("/:presetId", cfg.PresetsHandler.Delete)
		}

		v1.GET("/settings", cfg.SettingsHandler.Get)
		v1.PUT("/settings", cfg.SettingsHandler.Put)

		// Model template resolution
		v1.POST("/models/template", cfg.ModelsHandler.Template)

		// Per-context conversations
		contexts := v1.Group("/contexts/:contextId")
		{
			contexts.POST("/trigger", cfg.ContextsHandler.Trigger)
			contexts.POST("/messages", cfg.ContextsHandler.SendMessage)
			contexts.DELETE("", cfg.ContextsHandler.Close)
			contexts.GET("/transcript", cfg.ContextsHandler.Transcript)
			contexts.GET("/events", cfg.ContextsHandler.Events)
		}
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	r.Use(loggingMw.Logger())
	r.Use(loggingMw.RequestLogger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	Setup(r, cfg)
}
