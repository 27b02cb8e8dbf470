package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mealscribe/backend/internal/api"
	"github.com/mealscribe/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	scribeHandler *api.ScribeHandler,
	preferencesHandler *api.PreferencesHandler,
	admission *middleware.RateLimiter,
	corsOrigin string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(corsOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	v1 := router.Group("/api/v1")

	scribeHandler.RegisterRoutes(v1, admission.Middleware())
	v1.GET("/scribe/quota", admission.QuotaHandler())
	preferencesHandler.RegisterRoutes(v1)

	return router
}
