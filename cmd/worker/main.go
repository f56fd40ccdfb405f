package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchpad/internal/handlers/business"
	"launchpad/internal/models"
	"launchpad/pkg/config"
	chain "launchpad/pkg/solana"
)

const (
	// staleReservationAge is how long a mint keypair may stay reserved before
	// the reservation is considered abandoned and released.
	staleReservationAge = time.Hour

	// mintPoolTarget is how many pre-generated mint keypairs the pool keeps
	// available so preparation rarely has to generate one inline.
	mintPoolTarget = 20

	jobTimeout = 5 * time.Minute
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	db, err := config.NewDB(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}

	chainClient, err := chain.NewClient(cfg.RPCEndpoint)
	if err != nil {
		logrus.Fatal("Failed to create chain client: ", err)
	}

	aggregator := &business.Aggregator{
		DB:                db,
		Fees:              &business.FeeFetcher{Client: chainClient},
		SharedLPTokenMint: cfg.SharedLPTokenMint,
	}
	if cfg.SharedLPSignerKey != "" {
		signer, err := chain.NewSigner(cfg.SharedLPSignerKey)
		if err != nil {
			logrus.Fatal("Failed to parse shared LP signer: ", err)
		}
		aggregator.SharedLPWallet = signer.PublicKey()
	}

	var vault *chain.KeyVault
	if cfg.KeyVaultSecret != "" {
		vault, err = chain.NewKeyVault(cfg.KeyVaultSecret)
		if err != nil {
			logrus.Fatal("Failed to initialize key vault: ", err)
		}
	}

	intents := &business.IntentStore{DB: db}

	c := cron.New()

	c.AddFunc("@every 1m", withTimeout(func(ctx context.Context) {
		sweepClaimIntents(ctx, intents)
	}))
	c.AddFunc("@every 10m", withTimeout(func(ctx context.Context) {
		sweepPendingTokens(ctx, db)
		sweepPendingConfigs(ctx, db)
		releaseStaleReservations(ctx, db)
	}))
	c.AddFunc("@every 5m", withTimeout(func(ctx context.Context) {
		refreshFeeCache(ctx, db, aggregator)
	}))
	if vault != nil {
		c.AddFunc("@every 15m", withTimeout(func(ctx context.Context) {
			topUpMintPool(ctx, db, vault)
		}))
	}

	c.Start()
	logrus.Info("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down worker")
	<-c.Stop().Done()
}

func withTimeout(job func(context.Context)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		job(ctx)
	}
}

func sweepClaimIntents(ctx context.Context, intents *business.IntentStore) {
	n, err := intents.SweepExpired(ctx)
	if err != nil {
		logrus.Errorf("Failed to sweep expired claim intents: %v", err)
		return
	}
	if n > 0 {
		logrus.Infof("Swept %d expired claim intents", n)
	}
}

func sweepPendingTokens(ctx context.Context, db *gorm.DB) {
	res := db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.PendingProjectToken{})
	if res.Error != nil {
		logrus.Errorf("Failed to sweep expired pending tokens: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logrus.Infof("Swept %d expired pending tokens", res.RowsAffected)
	}
}

// sweepPendingConfigs deletes staged config rows that were never submitted.
// Their keypairs only matter if the config lands on chain, so dropping the
// row is safe.
func sweepPendingConfigs(ctx context.Context, db *gorm.DB) {
	cutoff := time.Now().Add(-business.PendingTokenTTL)
	res := db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.PendingProjectConfig{})
	if res.Error != nil {
		logrus.Errorf("Failed to sweep stale pending configs: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logrus.Infof("Swept %d stale pending configs", res.RowsAffected)
	}
}

// releaseStaleReservations returns mint keypairs to the pool when the
// preparation that reserved them never submitted.
func releaseStaleReservations(ctx context.Context, db *gorm.DB) {
	cutoff := time.Now().Add(-staleReservationAge)
	res := db.WithContext(ctx).Model(&models.MintKeypair{}).
		Where("status = ? AND reserved_at < ?", models.MintKeypairReserved, cutoff).
		Updates(map[string]interface{}{
			"status":      models.MintKeypairAvailable,
			"reserved_by": "",
			"reserved_at": nil,
		})
	if res.Error != nil {
		logrus.Errorf("Failed to release stale mint reservations: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logrus.Infof("Released %d stale mint keypair reservations", res.RowsAffected)
	}
}

// refreshFeeCache walks migrated tokens and snapshots their unclaimed fees so
// reward reads stay fast even when the RPC node is slow.
func refreshFeeCache(ctx context.Context, db *gorm.DB, aggregator *business.Aggregator) {
	var tokens []models.Token
	if err := db.WithContext(ctx).Find(&tokens).Error; err != nil {
		logrus.Errorf("Failed to list tokens for fee refresh: %v", err)
		return
	}

	var failed int
	for i := range tokens {
		if ctx.Err() != nil {
			return
		}
		if err := aggregator.RefreshFeeCache(ctx, &tokens[i]); err != nil {
			failed++
			logrus.WithFields(logrus.Fields{
				"mint":  tokens[i].Mint,
				"error": err,
			}).Warn("Failed to refresh fee cache for token")
		}
	}
	logrus.Infof("Fee cache refresh complete: %d tokens, %d failed", len(tokens), failed)
}

func topUpMintPool(ctx context.Context, db *gorm.DB, vault *chain.KeyVault) {
	var available int64
	if err := db.WithContext(ctx).Model(&models.MintKeypair{}).
		Where("status = ?", models.MintKeypairAvailable).
		Count(&available).Error; err != nil {
		logrus.Errorf("Failed to count available mint keypairs: %v", err)
		return
	}

	for i := available; i < mintPoolTarget; i++ {
		address, encrypted, err := vault.GenerateKeypair()
		if err != nil {
			logrus.Errorf("Failed to generate mint keypair: %v", err)
			return
		}
		keypair := models.MintKeypair{
			PublicKey:          address,
			EncryptedSecretKey: encrypted,
			Status:             models.MintKeypairAvailable,
		}
		if err := db.WithContext(ctx).Create(&keypair).Error; err != nil {
			logrus.Errorf("Failed to store mint keypair: %v", err)
			return
		}
	}
	if available < mintPoolTarget {
		logrus.Infof("Topped up mint keypair pool to %d", mintPoolTarget)
	}
}
