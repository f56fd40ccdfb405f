package routes

import (
	"github.com/gin-gonic/gin"

	"launchpad/internal/handlers"
	"launchpad/internal/middleware"
)

// SetupRewardsRoutes sets up creator reward reads and the claim pipeline.
// Claim routes hit the chain on every call, so they run rate limited.
func SetupRewardsRoutes(r *gin.Engine, h *handlers.Handler) {
	rewards := r.Group("/rewards")
	rewards.Use(middleware.RateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 5, Burst: 10}))
	{
		rewards.GET("/public/:wallet", h.GetPublicRewards)

		authed := rewards.Group("")
		authed.Use(h.Sessions.RequireAuth())
		{
			authed.GET("/:wallet", h.GetRewards)
			authed.POST("/prepare-claim", h.PrepareClaim)
			authed.POST("/log-claim", h.LogClaim)
			authed.POST("/ocn-claim", h.OcnClaim)
		}
	}
}
