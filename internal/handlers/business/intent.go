package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchpad/internal/apierr"
	"launchpad/internal/models"
	"launchpad/pkg/utils"
)

// ClaimIntentTTL is how long a prepared claim stays valid. The pinned
// amounts go stale as trading continues, so intents are short-lived.
const ClaimIntentTTL = 10 * time.Minute

// IntentStore manages claim intents: server-trusted snapshots of claimable
// amounts, pinned before the user signs anything. The API runs without
// in-process locks, so one-time consumption is enforced with conditional
// deletes and the ledger's unique signature constraint, never with mutexes.
type IntentStore struct {
	DB *gorm.DB
}

// CreateIntent pins the resolved fee state under a fresh claim id with a
// 10-minute expiry.
func (s *IntentStore) CreateIntent(ctx context.Context, state *TokenFeeState) (*models.PendingClaim, error) {
	total := state.DbcAmount.Decimal() + state.DammAmount.Decimal() + state.MigrationAmount.Decimal()
	intent := &models.PendingClaim{
		ClaimID:       uuid.NewString(),
		TokenAddress:  state.Token.Mint,
		CreatorWallet: state.Token.Creator,
		Currency:      string(state.Currency()),
		DbcFees:       state.DbcAmount.Decimal(),
		MigrationFee:  state.MigrationAmount.Decimal(),
		DammFees:      state.DammAmount.Decimal(),
		Total:         total,
		DbcFeesRaw:    state.DbcAmount.Raw,
		DammFeesRaw:   state.DammAmount.Raw,
		ExpiresAt:     time.Now().Add(ClaimIntentTTL),
	}

	if err := s.DB.WithContext(ctx).Create(intent).Error; err != nil {
		return nil, fmt.Errorf("failed to create claim intent: %w", err)
	}
	return intent, nil
}

// Consume fetches an intent for settlement. The row is not deleted here;
// the caller deletes it after the ledger write succeeds. Expired rows are
// deleted as a side effect of the rejected attempt.
func (s *IntentStore) Consume(ctx context.Context, claimID, expectedWallet string) (*models.PendingClaim, error) {
	var intent models.PendingClaim
	err := s.DB.WithContext(ctx).Where("claim_id = ?", claimID).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("claim_not_found", "claim not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load claim intent %s: %w", claimID, err)
	}

	if intent.CreatorWallet != expectedWallet {
		return nil, apierr.Forbidden("wrong_wallet", "claim belongs to a different wallet")
	}

	if intent.Expired(time.Now()) {
		if err := s.Delete(ctx, claimID); err != nil {
			logrus.WithError(err).WithField("claim_id", claimID).
				Warn("failed to delete expired claim intent")
		}
		return nil, apierr.Expired("claim_expired", "claim expired, prepare a new one")
	}

	return &intent, nil
}

// Delete removes an intent by id. Deleting an already-deleted intent is not
// an error; settlement races resolve at the ledger constraint, not here.
func (s *IntentStore) Delete(ctx context.Context, claimID string) error {
	return s.DB.WithContext(ctx).Where("claim_id = ?", claimID).Delete(&models.PendingClaim{}).Error
}

// SweepExpired garbage-collects intents past their TTL. Run from the worker;
// the read path also deletes lazily on access.
func (s *IntentStore) SweepExpired(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.PendingClaim{})
	return res.RowsAffected, res.Error
}

// IntentAmounts rebuilds currency-tagged amounts from a stored intent row.
// The columns keep their historical sol-suffixed names; the row's currency
// tag decides what they actually denominate.
func IntentAmounts(intent *models.PendingClaim) (dbc, damm utils.Amount) {
	currency := utils.Currency(intent.Currency)
	return utils.NewAmount(intent.DbcFeesRaw, currency), utils.NewAmount(intent.DammFeesRaw, currency)
}
