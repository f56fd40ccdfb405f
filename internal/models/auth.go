package models

import "time"

// AuthNonce is a one-time login challenge for a wallet. The wallet signs the
// nonce with its ed25519 key to prove ownership; the row is deleted on use.
type AuthNonce struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Wallet    string    `gorm:"size:100;uniqueIndex;not null" json:"wallet"`
	Nonce     string    `gorm:"size:64;not null" json:"nonce"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuthNonce) TableName() string {
	return "auth_nonces"
}
