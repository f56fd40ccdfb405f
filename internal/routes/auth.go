package routes

import (
	"github.com/gin-gonic/gin"

	"launchpad/internal/handlers"
	"launchpad/internal/middleware"
)

// SetupAuthRoutes sets up wallet login routes.
func SetupAuthRoutes(r *gin.Engine, h *handlers.Handler) {
	auth := r.Group("/auth")
	auth.Use(middleware.RateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 2, Burst: 5}))
	{
		auth.GET("/nonce/:wallet", h.GetNonce)
		auth.POST("/login", h.Login)
	}
}
