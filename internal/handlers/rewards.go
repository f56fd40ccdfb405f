package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"launchpad/internal/apierr"
	"launchpad/internal/handlers/business"
	"launchpad/internal/middleware"
)

// publicRewardsCacheTTL bounds how often an unauthenticated profile view can
// trigger chain reads for the same wallet.
const publicRewardsCacheTTL = 30 * time.Second

// GetRewards returns the authenticated wallet's full reward breakdown. A
// wallet can only read its own rewards through this route.
func (h *Handler) GetRewards(c *gin.Context) {
	wallet := c.Param("wallet")
	if wallet != middleware.WalletFromContext(c) {
		fail(c, apierr.Forbidden("wrong_wallet", "you can only view your own rewards"))
		return
	}

	rewards, err := h.Aggregator.WalletRewards(c.Request.Context(), wallet)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rewards)
}

// publicTokenRewards is the trimmed per-token entry for profile pages.
type publicTokenRewards struct {
	Mint          string  `json:"mint"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	LogoURI       string  `json:"logo_uri,omitempty"`
	ClaimableSol  float64 `json:"claimable_sol"`
	ClaimableUsdc float64 `json:"claimable_usdc"`
}

type publicRewardsResponse struct {
	Wallet             string               `json:"wallet"`
	Tokens             []publicTokenRewards `json:"tokens"`
	TotalSol           float64              `json:"total_sol"`
	TotalUsdc          float64              `json:"total_usdc"`
	LifetimeClaimedSol float64              `json:"lifetime_claimed_sol"`
}

// GetPublicRewards serves the unauthenticated, cached profile view. It
// drops the per-source precision fields the claim UI needs but profile
// pages do not.
func (h *Handler) GetPublicRewards(c *gin.Context) {
	wallet := c.Param("wallet")

	if cached, ok := h.publicRewards.get(wallet); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	rewards, err := h.Aggregator.WalletRewards(c.Request.Context(), wallet)
	if err != nil {
		fail(c, err)
		return
	}

	response := toPublicRewards(rewards)
	h.publicRewards.put(wallet, response)
	c.JSON(http.StatusOK, response)
}

func toPublicRewards(rewards *business.WalletRewards) *publicRewardsResponse {
	tokens := make([]publicTokenRewards, len(rewards.Tokens))
	for i, t := range rewards.Tokens {
		tokens[i] = publicTokenRewards{
			Mint:          t.Mint,
			Symbol:        t.Symbol,
			Name:          t.Name,
			LogoURI:       t.LogoURI,
			ClaimableSol:  t.ClaimableSol,
			ClaimableUsdc: t.ClaimableUsdc,
		}
	}
	return &publicRewardsResponse{
		Wallet:             rewards.Wallet,
		Tokens:             tokens,
		TotalSol:           rewards.TotalSol,
		TotalUsdc:          rewards.TotalUsdc,
		LifetimeClaimedSol: rewards.LifetimeClaimedSol,
	}
}

type rewardsCacheEntry struct {
	value   *publicRewardsResponse
	expires time.Time
}

// rewardsCache is a tiny TTL cache for the public rewards route.
type rewardsCache struct {
	mu      sync.Mutex
	entries map[string]rewardsCacheEntry
}

func newRewardsCache() *rewardsCache {
	return &rewardsCache{entries: make(map[string]rewardsCacheEntry)}
}

func (rc *rewardsCache) get(wallet string) (*publicRewardsResponse, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	entry, ok := rc.entries[wallet]
	if !ok || time.Now().After(entry.expires) {
		delete(rc.entries, wallet)
		return nil, false
	}
	return entry.value, true
}

func (rc *rewardsCache) put(wallet string, value *publicRewardsResponse) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries[wallet] = rewardsCacheEntry{value: value, expires: time.Now().Add(publicRewardsCacheTTL)}
}
