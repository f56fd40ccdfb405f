package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchpad/internal/apierr"
	"launchpad/internal/handlers/business"
	"launchpad/internal/middleware"
	"launchpad/internal/models"
)

type prepareProjectRequest struct {
	Name                string       `json:"name" binding:"required"`
	Symbol              string       `json:"symbol" binding:"required"`
	MetadataURI         string       `json:"metadata_uri"`
	Roadmap             string       `json:"roadmap"`
	GraduationThreshold float64      `json:"graduation_threshold"`
	FeeTier             int          `json:"fee_tier"`
	GraceMode           bool         `json:"grace_mode"`
	Vesting             models.JSONB `json:"vesting"`
}

// PrepareProject starts a token creation attempt: resolves config reuse by
// parameter hash, reserves a mint keypair and stages the token parameters.
func (h *Handler) PrepareProject(c *gin.Context) {
	wallet := middleware.WalletFromContext(c)

	var req prepareProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation("missing_fields", "name and symbol are required"))
		return
	}

	result, err := h.Pipeline.Prepare(c.Request.Context(), business.PrepareRequest{
		Creator:     wallet,
		Name:        req.Name,
		Symbol:      req.Symbol,
		MetadataURI: req.MetadataURI,
		Roadmap:     req.Roadmap,
		Launch: business.LaunchParams{
			GraduationThreshold: req.GraduationThreshold,
			FeeTier:             req.FeeTier,
			GraceMode:           req.GraceMode,
			Vesting:             req.Vesting,
		},
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type submitProjectRequest struct {
	MintAddress        string   `json:"mint_address" binding:"required"`
	ConfigAddress      string   `json:"config_address" binding:"required"`
	SignedTransactions []string `json:"signed_transactions" binding:"required"`
}

// SubmitProject applies server-held co-signers to the client-signed
// transactions and submits them sequentially.
func (h *Handler) SubmitProject(c *gin.Context) {
	wallet := middleware.WalletFromContext(c)

	var req submitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation("missing_fields", "mint_address, config_address and signed_transactions are required"))
		return
	}

	result, err := h.Pipeline.Submit(c.Request.Context(), business.SubmitRequest{
		Creator:            wallet,
		MintAddress:        req.MintAddress,
		ConfigAddress:      req.ConfigAddress,
		SignedTransactions: req.SignedTransactions,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
