package routes

import (
	"github.com/gin-gonic/gin"

	"launchpad/internal/handlers"
)

// SetupTokenRoutes sets up public token registry reads.
func SetupTokenRoutes(r *gin.Engine, h *handlers.Handler) {
	tokens := r.Group("/tokens")
	{
		tokens.GET("", h.ListTokens)
		tokens.GET("/:mint", h.GetToken)
	}
}
