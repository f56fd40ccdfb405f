package business

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"launchpad/internal/apierr"
	"launchpad/internal/models"
	"launchpad/pkg/config"
	chain "launchpad/pkg/solana"
	"launchpad/pkg/solana/dbc"
)

// Queue the async indexer consumes to finalize token rows after submission.
const TokenSubmittedQueue = "token.submitted"

// PendingTokenTTL bounds how long staged token parameters wait for the
// indexer before the worker sweeps them.
const PendingTokenTTL = 24 * time.Hour

// Pipeline steps returned by Prepare.
const (
	StepConfig = "config"
	StepPool   = "pool"
)

// ProjectPipeline drives the two-phase token-creation flow: prepare stages
// parameters and returns transactions for the client to sign; submit
// applies server-held co-signers, sends sequentially and promotes staged
// rows once the chain confirms.
type ProjectPipeline struct {
	DB        *gorm.DB
	Client    *chain.Client
	Vault     *chain.KeyVault
	Platform  *chain.Signer
	Publisher *config.Publisher
}

// PrepareRequest carries the launch parameters for a new token.
type PrepareRequest struct {
	Creator     string
	Name        string
	Symbol      string
	MetadataURI string
	Roadmap     string
	Launch      LaunchParams
}

// PrepareResult tells the client which step it is in. Step "pool" means the
// launch parameters matched an existing config and the client proceeds
// straight to pool preparation; step "config" carries an unsigned config
// transaction with roughly a 60-second blockhash budget.
type PrepareResult struct {
	Step          string `json:"step"`
	ConfigAddress string `json:"config_address"`
	ConfigHash    string `json:"config_hash"`
	ConfigTx      string `json:"config_tx,omitempty"`
	MintAddress   string `json:"mint_address"`
	MetadataURI   string `json:"metadata_uri,omitempty"`
}

// Prepare resolves config reuse, reserves a mint keypair and stages the
// token parameters.
func (p *ProjectPipeline) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResult, error) {
	if req.Name == "" || req.Symbol == "" {
		return nil, apierr.Validation("missing_fields", "name and symbol are required").
			WithField("name", "required").WithField("symbol", "required")
	}

	hash := ConfigHash(req.Launch)
	result := &PrepareResult{ConfigHash: hash, MetadataURI: req.MetadataURI}

	var existing models.ProjectConfig
	err := p.DB.WithContext(ctx).Where("config_hash = ?", hash).First(&existing).Error
	switch {
	case err == nil:
		result.Step = StepPool
		result.ConfigAddress = existing.ConfigAddress
	case errors.Is(err, gorm.ErrRecordNotFound):
		pending, tx, err := p.prepareConfig(ctx, req, hash)
		if err != nil {
			return nil, err
		}
		result.Step = StepConfig
		result.ConfigAddress = pending.ConfigAddress
		result.ConfigTx = tx
	default:
		return nil, fmt.Errorf("failed to look up config by hash: %w", err)
	}

	mint, err := p.reserveMintKeypair(ctx, req.Creator)
	if err != nil {
		return nil, err
	}
	result.MintAddress = mint.PublicKey

	if err := p.stagePendingToken(ctx, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// prepareConfig generates the config keypair, stages it encrypted and
// returns the unsigned creation transaction. The config keypair co-signs at
// submission, not here; the client only adds the creator wallet signature.
func (p *ProjectPipeline) prepareConfig(ctx context.Context, req PrepareRequest, hash string) (*models.PendingProjectConfig, string, error) {
	if p.Vault == nil {
		return nil, "", apierr.Internal("key vault not configured", nil)
	}

	address, encryptedSecret, err := p.Vault.GenerateKeypair()
	if err != nil {
		return nil, "", apierr.Internal("failed to generate config keypair", err)
	}
	configPub := solana.MustPublicKeyFromBase58(address)

	creator, err := solana.PublicKeyFromBase58(req.Creator)
	if err != nil {
		return nil, "", apierr.Validation("invalid_wallet", "creator wallet is not a valid address")
	}

	ix, err := dbc.NewCreateConfigInstruction(configPub, creator, dbc.CreateConfigParams{
		GraduationThreshold: uint64(req.Launch.GraduationThreshold * 1e9),
		FeeTierBps:          uint16(req.Launch.FeeTier),
		GraceMode:           boolToByte(req.Launch.GraceMode),
	})
	if err != nil {
		return nil, "", apierr.Internal("failed to build config instruction", err)
	}

	blockhash, err := p.Client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, "", apierr.Chain("chain_unavailable", "failed to get blockhash", err)
	}
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, blockhash, solana.TransactionPayer(creator))
	if err != nil {
		return nil, "", apierr.Internal("failed to assemble config transaction", err)
	}
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return nil, "", apierr.Internal("failed to serialize config transaction", err)
	}

	pending := &models.PendingProjectConfig{
		ConfigAddress:       address,
		ConfigHash:          hash,
		EncryptedSecretKey:  encryptedSecret,
		GraduationThreshold: req.Launch.GraduationThreshold,
		FeeTier:             req.Launch.FeeTier,
		GraceMode:           req.Launch.GraceMode,
		VestingParams:       req.Launch.Vesting,
	}
	if err := p.DB.WithContext(ctx).Create(pending).Error; err != nil {
		return nil, "", fmt.Errorf("failed to stage pending config: %w", err)
	}
	return pending, base64.StdEncoding.EncodeToString(serialized), nil
}

func (p *ProjectPipeline) stagePendingToken(ctx context.Context, req PrepareRequest, result *PrepareResult) error {
	row := models.PendingProjectToken{
		Mint:                result.MintAddress,
		Name:                req.Name,
		Symbol:              req.Symbol,
		MetadataURI:         req.MetadataURI,
		Creator:             req.Creator,
		ConfigAddress:       result.ConfigAddress,
		Roadmap:             req.Roadmap,
		VestingParams:       req.Launch.Vesting,
		GraduationThreshold: req.Launch.GraduationThreshold,
		FeeTier:             req.Launch.FeeTier,
		ExpiresAt:           time.Now().Add(PendingTokenTTL),
	}
	err := p.DB.WithContext(ctx).
		Where("mint = ?", row.Mint).
		Assign(row).
		FirstOrCreate(&models.PendingProjectToken{}).Error
	if err != nil {
		return fmt.Errorf("failed to stage pending token: %w", err)
	}
	return nil
}

// reserveMintKeypair takes one pooled keypair for this creator, reusing a
// reservation the same creator already holds. When the pool is empty a
// fresh keypair is generated on the spot.
func (p *ProjectPipeline) reserveMintKeypair(ctx context.Context, creator string) (*models.MintKeypair, error) {
	var kp models.MintKeypair
	err := p.DB.WithContext(ctx).
		Where("status = ? AND reserved_by = ?", models.MintKeypairReserved, creator).
		First(&kp).Error
	if err == nil {
		return &kp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check mint reservations: %w", err)
	}

	err = p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", models.MintKeypairAvailable).
			First(&kp).Error
		if err != nil {
			return err
		}
		now := time.Now()
		kp.Status = models.MintKeypairReserved
		kp.ReservedBy = creator
		kp.ReservedAt = &now
		return tx.Save(&kp).Error
	})
	if err == nil {
		return &kp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to reserve mint keypair: %w", err)
	}

	// Pool exhausted.
	if p.Vault == nil {
		return nil, apierr.Internal("mint keypair pool exhausted and key vault not configured", nil)
	}
	address, encryptedSecret, err := p.Vault.GenerateKeypair()
	if err != nil {
		return nil, apierr.Internal("failed to generate mint keypair", err)
	}
	now := time.Now()
	kp = models.MintKeypair{
		PublicKey:          address,
		EncryptedSecretKey: encryptedSecret,
		Status:             models.MintKeypairReserved,
		ReservedBy:         creator,
		ReservedAt:         &now,
	}
	if err := p.DB.WithContext(ctx).Create(&kp).Error; err != nil {
		return nil, fmt.Errorf("failed to store mint keypair: %w", err)
	}
	return &kp, nil
}

// ReleaseMintKeypair returns a reserved keypair to the pool so a failed
// submission does not strand it.
func (p *ProjectPipeline) ReleaseMintKeypair(ctx context.Context, mintAddress string) error {
	return p.DB.WithContext(ctx).Model(&models.MintKeypair{}).
		Where("public_key = ? AND status = ?", mintAddress, models.MintKeypairReserved).
		Updates(map[string]interface{}{
			"status":      models.MintKeypairAvailable,
			"reserved_by": "",
			"reserved_at": nil,
		}).Error
}

// SubmitRequest carries the client-signed transactions back to the server.
type SubmitRequest struct {
	Creator            string
	MintAddress        string
	ConfigAddress      string
	SignedTransactions []string
}

// SubmitResult reports the confirmed signatures.
type SubmitResult struct {
	Signatures    []string `json:"signatures"`
	MintAddress   string   `json:"mint_address"`
	ConfigAddress string   `json:"config_address"`
	Step          string   `json:"step"`
}

// Submit co-signs and sends the client's transactions one at a time, each
// confirmed before the next goes out, because later transactions depend on
// state the earlier ones create. On any failure the reserved mint keypair
// goes back to the pool.
func (p *ProjectPipeline) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if len(req.SignedTransactions) == 0 {
		return nil, apierr.Validation("missing_fields", "no transactions to submit")
	}

	var staged models.PendingProjectToken
	err := p.DB.WithContext(ctx).Where("mint = ?", req.MintAddress).First(&staged).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("token_not_found", "no pending token for this mint")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending token: %w", err)
	}
	if staged.Creator != req.Creator {
		return nil, apierr.Forbidden("not_creator", "pending token belongs to a different wallet")
	}

	coSigners, step, err := p.collectCoSigners(ctx, req)
	if err != nil {
		return nil, err
	}

	signatures := make([]string, 0, len(req.SignedTransactions))
	for i, encoded := range req.SignedTransactions {
		sig, err := p.submitOne(ctx, encoded, coSigners)
		if err != nil {
			if releaseErr := p.ReleaseMintKeypair(ctx, req.MintAddress); releaseErr != nil {
				logrus.WithError(releaseErr).WithField("mint", req.MintAddress).
					Error("failed to release mint keypair after failed submission")
			}
			if errors.Is(err, chain.ErrBlockhashExpired) {
				return nil, apierr.Expired("blockhash_expired",
					fmt.Sprintf("transaction %d expired, rebuild and resubmit", i))
			}
			var apiErr *apierr.Error
			if errors.As(err, &apiErr) {
				return nil, apiErr
			}
			return nil, apierr.Chain("submission_failed",
				fmt.Sprintf("transaction %d failed to confirm", i), err)
		}
		signatures = append(signatures, sig.String())
	}

	if step == StepConfig {
		if err := p.promoteConfig(ctx, req.ConfigAddress); err != nil {
			return nil, err
		}
	}
	p.consumeMintKeypair(ctx, req.MintAddress)

	if err := p.Publisher.Publish(TokenSubmittedQueue, map[string]interface{}{
		"mint":           req.MintAddress,
		"config_address": req.ConfigAddress,
		"creator":        req.Creator,
		"signatures":     signatures,
	}); err != nil {
		logrus.WithError(err).WithField("mint", req.MintAddress).
			Warn("failed to publish token submission event")
	}

	return &SubmitResult{
		Signatures:    signatures,
		MintAddress:   req.MintAddress,
		ConfigAddress: req.ConfigAddress,
		Step:          step,
	}, nil
}

// collectCoSigners decrypts the server-held keys this submission needs: the
// staged config keypair when the config account is still pending, the
// reserved mint keypair, and the platform fee payer.
func (p *ProjectPipeline) collectCoSigners(ctx context.Context, req SubmitRequest) ([]solana.PrivateKey, string, error) {
	if p.Vault == nil {
		return nil, "", apierr.Internal("key vault not configured", nil)
	}

	var keys []solana.PrivateKey
	step := StepPool

	var pendingConfig models.PendingProjectConfig
	err := p.DB.WithContext(ctx).Where("config_address = ?", req.ConfigAddress).First(&pendingConfig).Error
	switch {
	case err == nil:
		step = StepConfig
		key, err := p.Vault.Decrypt(pendingConfig.EncryptedSecretKey)
		if err != nil {
			return nil, "", apierr.Internal("failed to decrypt config keypair", err)
		}
		keys = append(keys, key)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Config already confirmed; nothing to co-sign for it.
	default:
		return nil, "", fmt.Errorf("failed to load pending config: %w", err)
	}

	var mintKp models.MintKeypair
	err = p.DB.WithContext(ctx).Where("public_key = ?", req.MintAddress).First(&mintKp).Error
	if err == nil {
		key, err := p.Vault.Decrypt(mintKp.EncryptedSecretKey)
		if err != nil {
			return nil, "", apierr.Internal("failed to decrypt mint keypair", err)
		}
		keys = append(keys, key)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to load mint keypair: %w", err)
	}

	return keys, step, nil
}

func (p *ProjectPipeline) submitOne(ctx context.Context, encoded string, coSigners []solana.PrivateKey) (solana.Signature, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return solana.Signature{}, apierr.Validation("invalid_transaction", "transaction is not valid base64")
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return solana.Signature{}, apierr.Validation("invalid_transaction", "failed to decode transaction")
	}

	if len(coSigners) > 0 {
		if err := chain.SignWith(tx, coSigners...); err != nil {
			return solana.Signature{}, apierr.Internal("failed to co-sign transaction", err)
		}
	}
	if p.Platform != nil {
		if err := p.Platform.PartialSign(tx); err != nil {
			return solana.Signature{}, apierr.Internal("failed to apply platform signature", err)
		}
	}

	return p.Client.SendAndConfirm(ctx, tx)
}

// promoteConfig turns the staged config row into the permanent, reusable
// one and drops the encrypted secret. A concurrent promotion of the same
// hash is treated as success; the config exists either way.
func (p *ProjectPipeline) promoteConfig(ctx context.Context, configAddress string) error {
	var pending models.PendingProjectConfig
	err := p.DB.WithContext(ctx).Where("config_address = ?", configAddress).First(&pending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load pending config for promotion: %w", err)
	}

	err = p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		confirmed := models.ProjectConfig{
			ConfigAddress:       pending.ConfigAddress,
			ConfigHash:          pending.ConfigHash,
			GraduationThreshold: pending.GraduationThreshold,
			FeeTier:             pending.FeeTier,
			GraceMode:           pending.GraceMode,
			VestingParams:       pending.VestingParams,
		}
		if err := tx.Create(&confirmed).Error; err != nil && !isDuplicateKey(err) {
			return err
		}
		return tx.Delete(&pending).Error
	})
	if err != nil {
		return fmt.Errorf("failed to promote config %s: %w", configAddress, err)
	}
	return nil
}

// consumeMintKeypair removes the keypair row once the mint is live on
// chain. Best-effort; the indexer reconciles the table regardless.
func (p *ProjectPipeline) consumeMintKeypair(ctx context.Context, mintAddress string) {
	err := p.DB.WithContext(ctx).
		Where("public_key = ?", mintAddress).
		Delete(&models.MintKeypair{}).Error
	if err != nil {
		logrus.WithError(err).WithField("mint", mintAddress).
			Warn("failed to delete consumed mint keypair")
	}
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
