package models

import "time"

// Token is the launchpad token registry. Rows are written by the async
// indexer once creation transactions land on chain; this service treats the
// table as read-mostly.
type Token struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	Mint              string    `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	Symbol            string    `gorm:"size:16;not null" json:"symbol"`
	Name              string    `gorm:"size:64;not null" json:"name"`
	Decimals          int       `gorm:"not null;default:9" json:"decimals"`
	LogoURI           string    `gorm:"type:text" json:"logo_uri"`
	MetadataURI       string    `gorm:"type:text" json:"metadata_uri"`
	Creator           string    `gorm:"size:100;index;not null" json:"creator"`
	PoolAddress       string    `gorm:"size:100" json:"pool_address"`
	DammV2PoolAddress string    `gorm:"size:100" json:"damm_v2_pool_address"`
	QuoteMint         string    `gorm:"size:100" json:"quote_mint"`
	Migrated          bool      `gorm:"default:false" json:"migrated"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Token) TableName() string {
	return "tokens"
}
