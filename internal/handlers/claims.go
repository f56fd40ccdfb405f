package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchpad/internal/apierr"
	"launchpad/internal/handlers/business"
	"launchpad/internal/middleware"
	"launchpad/internal/models"
	"launchpad/pkg/utils"
)

type prepareClaimRequest struct {
	TokenAddress string `json:"token_address" binding:"required"`
}

// PrepareClaim re-derives the claimable amounts from chain, pins them in a
// 10-minute intent and returns everything the client needs to build the
// claim transaction. Amounts the client later reports are never trusted;
// settlement reads them back from the intent.
func (h *Handler) PrepareClaim(c *gin.Context) {
	wallet := middleware.WalletFromContext(c)

	var req prepareClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation("missing_fields", "token_address is required"))
		return
	}

	ctx := c.Request.Context()
	token, err := h.findToken(c, req.TokenAddress)
	if err != nil {
		fail(c, err)
		return
	}
	if token.Creator != wallet {
		fail(c, apierr.Forbidden("not_creator", "only the token creator can claim rewards"))
		return
	}

	state, err := h.Aggregator.FetchTokenFees(ctx, token)
	if err != nil {
		fail(c, apierr.Chain("chain_unavailable", "failed to read fee state from chain", err))
		return
	}
	if !state.Claimable() {
		fail(c, apierr.Validation("no_fees", "no fees available to claim"))
		return
	}

	intent, err := h.Intents.CreateIntent(ctx, state)
	if err != nil {
		fail(c, err)
		return
	}

	response := gin.H{
		"claim_id":       intent.ClaimID,
		"pool_address":   token.PoolAddress,
		"creator_wallet": token.Creator,
		"available_rewards": gin.H{
			"dbc":       !state.DbcAmount.IsDust(),
			"migration": !state.MigrationAmount.IsDust(),
			"damm":      !state.DammAmount.IsDust(),
		},
		"amounts": gin.H{
			"dbc_sol":       intent.DbcFees,
			"migration_sol": intent.MigrationFee,
			"damm_sol":      intent.DammFees,
			"total_sol":     intent.Total,
			"currency":      intent.Currency,
		},
		"expires_at": intent.ExpiresAt,
	}
	if state.Dbc != nil {
		response["pool_data"] = state.Dbc.Pool
	}
	if token.DammV2PoolAddress != "" {
		response["damm_v2_pool_address"] = token.DammV2PoolAddress
	}
	if state.Damm != nil {
		response["damm_pool_state"] = state.Damm.Pool
		response["user_positions"] = state.Damm.Positions
	}
	if h.Direct != nil && !state.SharedLP {
		serialized, err := h.Direct.Build(ctx, state)
		if err != nil {
			logrus.WithError(err).WithField("mint", token.Mint).
				Warn("failed to assemble direct claim transaction")
		} else {
			response["serialized_transaction"] = serialized
		}
	}
	c.JSON(http.StatusOK, response)
}

type logClaimRequest struct {
	ClaimID              string `json:"claim_id" binding:"required"`
	TransactionSignature string `json:"transaction_signature" binding:"required"`
}

// LogClaim verifies a submitted claim transaction and settles it into the
// ledger.
func (h *Handler) LogClaim(c *gin.Context) {
	wallet := middleware.WalletFromContext(c)

	var req logClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation("missing_fields", "claim_id and transaction_signature are required"))
		return
	}

	record, err := h.Settler.LogClaim(c.Request.Context(), wallet, req.ClaimID, req.TransactionSignature)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               "claim logged",
		"total_claimed":         record.TotalClaimed,
		"currency":              record.Currency,
		"cumulative_earned_sol": record.CumulativeEarnedSol,
	})
}

type ocnClaimRequest struct {
	TokenAddress string `json:"token_address" binding:"required"`
}

// OcnClaim prepares the split-payment claim for the shared-LP token. The
// platform claims its LP fees and forwards the creator's floor(2/3) share
// in USDC; the returned transaction is partially signed and waits for the
// creator's countersignature on the memo receipt.
func (h *Handler) OcnClaim(c *gin.Context) {
	wallet := middleware.WalletFromContext(c)

	var req ocnClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation("missing_fields", "token_address is required"))
		return
	}
	if h.Cfg.SharedLPTokenMint == "" || req.TokenAddress != h.Cfg.SharedLPTokenMint {
		fail(c, apierr.Validation("wrong_token", "this token does not use the split-payment flow"))
		return
	}

	ctx := c.Request.Context()
	token, err := h.findToken(c, req.TokenAddress)
	if err != nil {
		fail(c, err)
		return
	}
	if token.Creator != wallet {
		fail(c, apierr.Forbidden("not_creator", "only the token creator can claim rewards"))
		return
	}

	claim, err := h.Split.Build(ctx, wallet)
	if err != nil {
		fail(c, err)
		return
	}

	state := &business.TokenFeeState{
		Token:           token,
		SharedLP:        true,
		Damm:            claim.Fees,
		DbcAmount:       utils.NewAmount(0, utils.CurrencyUSDC),
		DammAmount:      claim.CreatorShare,
		MigrationAmount: utils.NewAmount(0, utils.CurrencySOL),
	}
	intent, err := h.Intents.CreateIntent(ctx, state)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claim_id":               intent.ClaimID,
		"serialized_transaction": claim.SerializedTransaction,
		"creator_share_usdc":     claim.CreatorShare.Decimal(),
		"platform_share_usdc":    claim.PlatformShare.Decimal(),
		"total_usdc":             claim.Total.Decimal(),
		"expires_at":             intent.ExpiresAt,
	})
}

func (h *Handler) findToken(c *gin.Context, mint string) (*models.Token, error) {
	var token models.Token
	err := h.DB.WithContext(c.Request.Context()).Where("mint = ?", mint).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("token_not_found", "token not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token %s: %w", mint, err)
	}
	return &token, nil
}
