package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/evermarks/evermark-minter/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public read access
		v1.GET("/evermarks/:token_id", handler.GetEvermark)
		v1.GET("/seasons/current", handler.GetCurrentSeason)
		v1.GET("/chain/status", handler.GetChainStatus)
		v1.POST("/evermarks/duplicates/check", handler.CheckDuplicate)

		// Creation spends the minting account's funds and requires
		// authentication whenever credentials are configured
		writes := v1.Group("")
		if authCfg.Enabled() {
			writes.Use(middleware.Auth(authCfg))
		}
		writes.POST("/evermarks", handler.CreateEvermark)
	}
}
