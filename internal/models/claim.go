package models

import "time"

// PendingClaim is a short-lived, server-trusted snapshot of what a creator
// wallet may claim for one token. Amounts are pinned at prepare time and are
// never recomputed from anything the client sends. Rows are consumed (and
// deleted) by settlement, or garbage-collected once expired.
//
// Currency tags which quote token the amount columns are denominated in.
// Historically the columns carry "sol" names even when the shared-LP token
// pays USDC; the tag makes that explicit instead of relying on token
// identity.
type PendingClaim struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ClaimID       string    `gorm:"size:64;uniqueIndex;not null" json:"claim_id"`
	TokenAddress  string    `gorm:"size:100;index;not null" json:"token_address"`
	CreatorWallet string    `gorm:"size:100;index;not null" json:"creator_wallet"`
	Currency      string    `gorm:"size:8;not null;default:'SOL'" json:"currency"`
	DbcFees       float64   `gorm:"column:dbc_fees_sol" json:"dbc_fees_sol"`
	MigrationFee  float64   `gorm:"column:migration_fee_sol" json:"migration_fee_sol"`
	DammFees      float64   `gorm:"column:damm_fees_sol" json:"damm_fees_sol"`
	Total         float64   `gorm:"column:total_sol" json:"total_sol"`
	DbcFeesRaw    uint64    `json:"dbc_fees_raw"`
	DammFeesRaw   uint64    `json:"damm_fees_raw"`
	ExpiresAt     time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PendingClaim) TableName() string {
	return "pending_claims"
}

// Expired reports whether the intent is past its TTL at the given instant.
func (c *PendingClaim) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ClaimedRewardsHistory is the append-only settlement ledger. Exactly one row
// per verified claim; the unique index on TransactionSignature is the
// at-most-once guarantee, enforced by postgres because the API is deployed
// without in-process locks.
type ClaimedRewardsHistory struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	TokenAddress         string    `gorm:"size:100;index;not null" json:"token_address"`
	CreatorWallet        string    `gorm:"size:100;index;not null" json:"creator_wallet"`
	Currency             string    `gorm:"size:8;not null;default:'SOL'" json:"currency"`
	DbcFees              float64   `gorm:"column:dbc_fees_sol" json:"dbc_fees_sol"`
	MigrationFee         float64   `gorm:"column:migration_fee_sol" json:"migration_fee_sol"`
	DammFees             float64   `gorm:"column:damm_fees_sol" json:"damm_fees_sol"`
	TotalClaimed         float64   `gorm:"column:total_claimed_sol" json:"total_claimed_sol"`
	CumulativeEarnedSol  float64   `json:"cumulative_earned_sol"`
	TransactionSignature string    `gorm:"size:120;uniqueIndex;not null" json:"transaction_signature"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ClaimedRewardsHistory) TableName() string {
	return "claimed_rewards_history"
}

// CreatorFee is a denormalized per-token mirror of claimable totals kept for
// cheap read paths. It is never authoritative; the chain is re-read on every
// claim preparation. Fields touched by a settled claim are zeroed, not
// deleted.
type CreatorFee struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	TokenAddress    string    `gorm:"size:100;uniqueIndex;not null" json:"token_address"`
	CreatorWallet   string    `gorm:"size:100;index;not null" json:"creator_wallet"`
	Currency        string    `gorm:"size:8;not null;default:'SOL'" json:"currency"`
	DbcFees         float64   `gorm:"column:dbc_fees_sol" json:"dbc_fees_sol"`
	DbcFeesRaw      uint64    `json:"dbc_fees_raw"`
	DammFees        float64   `gorm:"column:damm_fees_sol" json:"damm_fees_sol"`
	DammFeesRaw     uint64    `json:"damm_fees_raw"`
	MigrationFee    float64   `gorm:"column:migration_fee_sol" json:"migration_fee_sol"`
	DbcClaimable    bool      `gorm:"default:false" json:"dbc_claimable"`
	DammClaimable   bool      `gorm:"default:false" json:"damm_claimable"`
	TotalClaimable  float64   `json:"total_claimable"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CreatorFee) TableName() string {
	return "creator_fees"
}
