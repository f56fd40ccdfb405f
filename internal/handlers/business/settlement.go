package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchpad/internal/apierr"
	"launchpad/internal/models"
	chain "launchpad/pkg/solana"
)

// Settler verifies a submitted claim transaction against the chain and
// records it in the ledger. Chain failures on this path are never degraded
// to zero; a false-positive credit is the worst outcome the system has.
type Settler struct {
	DB      *gorm.DB
	Client  *chain.Client
	Intents *IntentStore

	// Shared-LP split-payment identification: claims for this mint are
	// fee-paid by the platform wallet instead of the creator.
	SharedLPTokenMint string
	SharedLPWallet    solana.PublicKey
}

// LogClaim settles one claim. Every verification step must pass in order;
// the ledger row is written from the intent's pinned amounts, never from
// anything the caller sent.
func (s *Settler) LogClaim(ctx context.Context, wallet, claimID, signature string) (*models.ClaimedRewardsHistory, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, apierr.Validation("invalid_signature", "transaction signature is not valid base58")
	}

	var existing models.ClaimedRewardsHistory
	err = s.DB.WithContext(ctx).Where("transaction_signature = ?", signature).First(&existing).Error
	if err == nil {
		return nil, apierr.Conflict("already_logged", "this transaction has already been logged")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check ledger for %s: %w", signature, err)
	}

	intent, err := s.Intents.Consume(ctx, claimID, wallet)
	if err != nil {
		return nil, err
	}

	if err := s.verifyTransaction(ctx, sig, intent); err != nil {
		return nil, err
	}

	record, err := s.writeLedger(ctx, intent, signature)
	if err != nil {
		return nil, err
	}

	if err := s.Intents.Delete(ctx, claimID); err != nil {
		logrus.WithError(err).WithField("claim_id", claimID).
			Error("claim logged but intent deletion failed")
	}
	s.zeroFeeCache(ctx, intent.TokenAddress)

	return record, nil
}

// verifyTransaction confirms the transaction landed successfully and was
// signed by the parties the claim path requires. Direct claims are fee-paid
// by the creator; split-payment claims are fee-paid by the platform wallet
// and must still carry the creator's signature, which covers the memo
// acknowledgment instruction.
func (s *Settler) verifyTransaction(ctx context.Context, sig solana.Signature, intent *models.PendingClaim) error {
	result, err := s.Client.GetTransaction(ctx, sig)
	if err != nil {
		return apierr.Chain("chain_unavailable", "failed to verify transaction on chain", err)
	}
	if result == nil {
		return apierr.Validation("transaction_not_found", "transaction not found on chain, try again shortly")
	}
	if result.Meta == nil {
		return apierr.Validation("transaction_unverifiable", "transaction has no execution metadata")
	}
	if result.Meta.Err != nil {
		return apierr.Validation("transaction_failed", "transaction failed on chain")
	}

	parsed, err := result.Transaction.GetTransaction()
	if err != nil || parsed == nil {
		return apierr.Chain("transaction_undecodable", "failed to decode transaction", err)
	}

	message := parsed.Message
	numSigners := int(message.Header.NumRequiredSignatures)
	if numSigners == 0 || len(message.AccountKeys) < numSigners {
		return apierr.Validation("transaction_unverifiable", "transaction has no signers")
	}
	feePayer := message.AccountKeys[0]

	creator, err := solana.PublicKeyFromBase58(intent.CreatorWallet)
	if err != nil {
		return fmt.Errorf("intent %s has invalid creator wallet: %w", intent.ClaimID, err)
	}

	if s.isSplitPayment(intent) {
		if !feePayer.Equals(s.SharedLPWallet) {
			return apierr.Forbidden("wrong_signer", "transaction was not paid by the platform wallet")
		}
		if !containsSigner(message.AccountKeys[:numSigners], creator) {
			return apierr.Forbidden("wrong_signer", "creator signature missing from transaction")
		}
		return nil
	}

	if !feePayer.Equals(creator) {
		return apierr.Forbidden("wrong_signer", "transaction was not signed by the claiming wallet")
	}
	return nil
}

func (s *Settler) isSplitPayment(intent *models.PendingClaim) bool {
	return s.SharedLPTokenMint != "" && intent.TokenAddress == s.SharedLPTokenMint
}

func containsSigner(signers []solana.PublicKey, wanted solana.PublicKey) bool {
	for _, key := range signers {
		if key.Equals(wanted) {
			return true
		}
	}
	return false
}

// writeLedger appends the history row inside a transaction, computing the
// wallet's new cumulative from the previous row. The unique index on the
// signature is what makes concurrent double-submission safe.
func (s *Settler) writeLedger(ctx context.Context, intent *models.PendingClaim, signature string) (*models.ClaimedRewardsHistory, error) {
	record := &models.ClaimedRewardsHistory{
		TokenAddress:         intent.TokenAddress,
		CreatorWallet:        intent.CreatorWallet,
		Currency:             intent.Currency,
		DbcFees:              intent.DbcFees,
		MigrationFee:         intent.MigrationFee,
		DammFees:             intent.DammFees,
		TotalClaimed:         intent.Total,
		TransactionSignature: signature,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last models.ClaimedRewardsHistory
		err := tx.Where("creator_wallet = ?", intent.CreatorWallet).
			Order("id DESC").
			First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read previous cumulative: %w", err)
		}
		record.CumulativeEarnedSol = last.CumulativeEarnedSol + intent.Total
		return tx.Create(record).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, apierr.Conflict("already_logged", "this transaction has already been logged")
		}
		return nil, fmt.Errorf("failed to write claim ledger: %w", err)
	}
	return record, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}

// zeroFeeCache clears the denormalized mirror for the settled token.
// Best-effort; a failure here never unwinds the ledger write.
func (s *Settler) zeroFeeCache(ctx context.Context, tokenAddress string) {
	err := s.DB.WithContext(ctx).Model(&models.CreatorFee{}).
		Where("token_address = ?", tokenAddress).
		Updates(map[string]interface{}{
			"dbc_fees_sol":      0,
			"dbc_fees_raw":      0,
			"damm_fees_sol":     0,
			"damm_fees_raw":     0,
			"migration_fee_sol": 0,
			"dbc_claimable":     false,
			"damm_claimable":    false,
			"total_claimable":   0,
		}).Error
	if err != nil {
		logrus.WithError(err).WithField("token", tokenAddress).
			Warn("failed to zero creator fee cache after claim")
	}
}
