package routes

import (
	"github.com/gin-gonic/gin"

	"launchpad/internal/handlers"
	"launchpad/internal/middleware"
)

// SetupProjectRoutes sets up the two-phase token creation pipeline.
func SetupProjectRoutes(r *gin.Engine, h *handlers.Handler) {
	project := r.Group("/project")
	project.Use(middleware.RateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 1, Burst: 3}))
	project.Use(h.Sessions.RequireAuth())
	{
		project.POST("/prepare", h.PrepareProject)
		project.POST("/submit", h.SubmitProject)
	}
}
