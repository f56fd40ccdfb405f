package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchpad/internal/models"
)

// GetToken returns one token by mint address.
func (h *Handler) GetToken(c *gin.Context) {
	token, err := h.findToken(c, c.Param("mint"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// ListTokens returns tokens, optionally filtered by creator wallet.
func (h *Handler) ListTokens(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).Order("created_at DESC").Limit(200)
	if creator := c.Query("creator"); creator != "" {
		query = query.Where("creator = ?", creator)
	}

	var tokens []models.Token
	if err := query.Find(&tokens).Error; err != nil {
		fail(c, fmt.Errorf("failed to list tokens: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}
