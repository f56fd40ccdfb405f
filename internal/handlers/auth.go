package handlers

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"launchpad/internal/apierr"
	"launchpad/internal/models"
)

const nonceTTL = 5 * time.Minute

// loginMessage is what the wallet actually signs. Keeping it human-readable
// lets wallet UIs display it instead of warning about opaque bytes.
func loginMessage(nonce string) string {
	return fmt.Sprintf("Sign this message to authenticate with Launchpad.\n\nNonce: %s", nonce)
}

// GetNonce issues a fresh one-time login challenge for the wallet. Calling
// it again replaces any previous challenge.
func (h *Handler) GetNonce(c *gin.Context) {
	wallet := c.Param("wallet")
	if _, err := solana.PublicKeyFromBase58(wallet); err != nil {
		fail(c, apierr.Validation("invalid_wallet", "wallet is not a valid address"))
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		fail(c, apierr.Internal("failed to generate nonce", err))
		return
	}
	nonce := hex.EncodeToString(buf)

	row := models.AuthNonce{
		Wallet:    wallet,
		Nonce:     nonce,
		ExpiresAt: time.Now().Add(nonceTTL),
	}
	err := h.DB.WithContext(c.Request.Context()).
		Where("wallet = ?", wallet).
		Assign(row).
		FirstOrCreate(&models.AuthNonce{}).Error
	if err != nil {
		fail(c, fmt.Errorf("failed to store nonce: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":  wallet,
		"message": loginMessage(nonce),
	})
}

type loginRequest struct {
	Wallet    string `json:"wallet" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// Login verifies the wallet's ed25519 signature over the issued challenge
// and returns a session token. The nonce is deleted on use, pass or fail
// has no bearing; a new login always needs a new challenge.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation("missing_fields", "wallet and signature are required"))
		return
	}

	pubkey, err := solana.PublicKeyFromBase58(req.Wallet)
	if err != nil {
		fail(c, apierr.Validation("invalid_wallet", "wallet is not a valid address"))
		return
	}
	sig, err := solana.SignatureFromBase58(req.Signature)
	if err != nil {
		fail(c, apierr.Validation("invalid_signature", "signature is not valid base58"))
		return
	}

	ctx := c.Request.Context()
	var challenge models.AuthNonce
	err = h.DB.WithContext(ctx).Where("wallet = ?", req.Wallet).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, apierr.Unauthenticated("no login challenge for this wallet, request a nonce first"))
		return
	}
	if err != nil {
		fail(c, fmt.Errorf("failed to load nonce: %w", err))
		return
	}

	if err := h.DB.WithContext(ctx).Delete(&challenge).Error; err != nil {
		fail(c, fmt.Errorf("failed to consume nonce: %w", err))
		return
	}

	if time.Now().After(challenge.ExpiresAt) {
		fail(c, apierr.Unauthenticated("login challenge expired, request a new nonce"))
		return
	}

	message := []byte(loginMessage(challenge.Nonce))
	if !ed25519.Verify(ed25519.PublicKey(pubkey.Bytes()), message, sig[:]) {
		fail(c, apierr.Unauthenticated("signature does not match wallet"))
		return
	}

	token, err := h.Sessions.Issue(req.Wallet)
	if err != nil {
		fail(c, apierr.Internal("failed to issue session", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"wallet": req.Wallet,
	})
}
