package models

import "time"

// ProjectConfig is a confirmed, reusable on-chain launch-parameter bundle.
// ConfigHash is the deterministic digest of the normalized launch parameters;
// content-identical launches resolve to the same row so no redundant config
// account is created on chain.
type ProjectConfig struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	ConfigAddress       string    `gorm:"size:100;uniqueIndex;not null" json:"config_address"`
	ConfigHash          string    `gorm:"size:64;uniqueIndex;not null" json:"config_hash"`
	GraduationThreshold float64   `json:"graduation_threshold"`
	FeeTier             int       `json:"fee_tier"`
	GraceMode           bool      `gorm:"default:false" json:"grace_mode"`
	VestingParams       JSONB     `gorm:"type:jsonb" json:"vesting_params"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProjectConfig) TableName() string {
	return "project_configs"
}

// PendingProjectConfig stages a config account between preparation and
// on-chain confirmation. EncryptedSecretKey holds the config keypair secret
// (AES-GCM, see pkg/solana keyvault) so submission can co-sign; the row is
// promoted to ProjectConfig and deleted once the transaction confirms.
type PendingProjectConfig struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	ConfigAddress       string    `gorm:"size:100;uniqueIndex;not null" json:"config_address"`
	ConfigHash          string    `gorm:"size:64;index;not null" json:"config_hash"`
	EncryptedSecretKey  string    `gorm:"type:text;not null" json:"-"`
	GraduationThreshold float64   `json:"graduation_threshold"`
	FeeTier             int       `json:"fee_tier"`
	GraceMode           bool      `gorm:"default:false" json:"grace_mode"`
	VestingParams       JSONB     `gorm:"type:jsonb" json:"vesting_params"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PendingProjectConfig) TableName() string {
	return "project_configs_pending"
}

// PendingProjectToken stages token-creation parameters until the async
// indexer writes the permanent Token row from chain data. Rows expire after
// 24 hours and are swept by the worker.
type PendingProjectToken struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	Mint                string    `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	Name                string    `gorm:"size:64;not null" json:"name"`
	Symbol              string    `gorm:"size:16;not null" json:"symbol"`
	MetadataURI         string    `gorm:"type:text" json:"metadata_uri"`
	Creator             string    `gorm:"size:100;index;not null" json:"creator"`
	ConfigAddress       string    `gorm:"size:100;not null" json:"config_address"`
	Roadmap             string    `gorm:"type:text" json:"roadmap"`
	VestingParams       JSONB     `gorm:"type:jsonb" json:"vesting_params"`
	GraduationThreshold float64   `json:"graduation_threshold"`
	FeeTier             int       `json:"fee_tier"`
	ExpiresAt           time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PendingProjectToken) TableName() string {
	return "project_tokens_pending"
}

// Mint keypair pool states.
const (
	MintKeypairAvailable = "available"
	MintKeypairReserved  = "reserved"
)

// MintKeypair is a pre-generated mint keypair. Preparation reserves one; a
// failed submission releases it back so the key is not stranded.
type MintKeypair struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	PublicKey          string     `gorm:"size:100;uniqueIndex;not null" json:"public_key"`
	EncryptedSecretKey string     `gorm:"type:text;not null" json:"-"`
	Status             string     `gorm:"size:16;index;not null;default:'available'" json:"status"`
	ReservedBy         string     `gorm:"size:100" json:"reserved_by"`
	ReservedAt         *time.Time `json:"reserved_at"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MintKeypair) TableName() string {
	return "mint_keypairs"
}
