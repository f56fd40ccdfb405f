package handlers

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"

	"launchpad/internal/handlers/business"
	"launchpad/internal/middleware"
	"launchpad/pkg/config"
	chain "launchpad/pkg/solana"
)

// Handler bundles every dependency the HTTP layer needs. It is built once
// at startup and shared across requests; nothing here is request-scoped.
type Handler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Chain    *chain.Client
	Sessions *middleware.SessionManager

	Aggregator *business.Aggregator
	Intents    *business.IntentStore
	Settler    *business.Settler
	Direct     *business.DirectClaimBuilder
	Split      *business.SplitClaimBuilder
	Pipeline   *business.ProjectPipeline

	publicRewards *rewardsCache
}

// New wires the business components from configuration. Signer keys are
// optional so read-only deployments can run; the routes that need a missing
// signer fail per-request instead of at startup.
func New(cfg *config.Config, db *gorm.DB, chainClient *chain.Client, publisher *config.Publisher) (*Handler, error) {
	fees := &business.FeeFetcher{Client: chainClient}

	var platformSigner *chain.Signer
	if cfg.PlatformSignerKey != "" {
		s, err := chain.NewSigner(cfg.PlatformSignerKey)
		if err != nil {
			return nil, fmt.Errorf("platform signer: %w", err)
		}
		platformSigner = s
	}

	var sharedSigner *chain.Signer
	var sharedWallet solana.PublicKey
	if cfg.SharedLPSignerKey != "" {
		s, err := chain.NewSigner(cfg.SharedLPSignerKey)
		if err != nil {
			return nil, fmt.Errorf("shared LP signer: %w", err)
		}
		sharedSigner = s
		sharedWallet = s.PublicKey()
	}

	var vault *chain.KeyVault
	if cfg.KeyVaultSecret != "" {
		v, err := chain.NewKeyVault(cfg.KeyVaultSecret)
		if err != nil {
			return nil, err
		}
		vault = v
	}

	aggregator := &business.Aggregator{
		DB:                db,
		Fees:              fees,
		SharedLPTokenMint: cfg.SharedLPTokenMint,
		SharedLPWallet:    sharedWallet,
	}
	intents := &business.IntentStore{DB: db}

	return &Handler{
		DB:         db,
		Cfg:        cfg,
		Chain:      chainClient,
		Sessions:   middleware.NewSessionManager(cfg.SessionSecret),
		Aggregator: aggregator,
		Intents:    intents,
		Settler: &business.Settler{
			DB:                db,
			Client:            chainClient,
			Intents:           intents,
			SharedLPTokenMint: cfg.SharedLPTokenMint,
			SharedLPWallet:    sharedWallet,
		},
		Direct: &business.DirectClaimBuilder{Client: chainClient},
		Split: &business.SplitClaimBuilder{
			Client:      chainClient,
			Fees:        fees,
			Signer:      sharedSigner,
			TokenMint:   cfg.SharedLPTokenMint,
			PoolAddress: cfg.SharedLPPoolAddress,
		},
		Pipeline: &business.ProjectPipeline{
			DB:        db,
			Client:    chainClient,
			Vault:     vault,
			Platform:  platformSigner,
			Publisher: publisher,
		},
		publicRewards: newRewardsCache(),
	}, nil
}
