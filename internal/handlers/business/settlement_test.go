package business

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/apierr"
	"launchpad/internal/models"
	"launchpad/pkg/utils"
)

func TestContainsSigner(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	c := solana.NewWallet().PublicKey()

	assert.True(t, containsSigner([]solana.PublicKey{a, b}, b))
	assert.False(t, containsSigner([]solana.PublicKey{a, b}, c))
	assert.False(t, containsSigner(nil, a))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New(`pq: duplicate key value violates unique constraint "idx_claimed_rewards_history_transaction_signature"`)))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}

func TestIsSplitPayment(t *testing.T) {
	s := &Settler{SharedLPTokenMint: "SharedMint"}

	assert.True(t, s.isSplitPayment(&models.PendingClaim{TokenAddress: "SharedMint"}))
	assert.False(t, s.isSplitPayment(&models.PendingClaim{TokenAddress: "Other"}))

	unset := &Settler{}
	assert.False(t, unset.isSplitPayment(&models.PendingClaim{TokenAddress: ""}))
}

func TestWriteLedgerRejectsDuplicateSignature(t *testing.T) {
	db := testDB(t)
	s := &Settler{DB: db}
	ctx := context.Background()
	intent := &models.PendingClaim{
		ClaimID:       "claim-1",
		TokenAddress:  "mint",
		CreatorWallet: "wallet",
		Currency:      "SOL",
		Total:         1.5,
	}

	first, err := s.writeLedger(ctx, intent, "sig-1")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, first.CumulativeEarnedSol, 1e-9)

	_, err = s.writeLedger(ctx, intent, "sig-1")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "already_logged", apiErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.ClaimedRewardsHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// A different signature settles normally and the cumulative advances.
	second, err := s.writeLedger(ctx, intent, "sig-2")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, second.CumulativeEarnedSol, 1e-9)
}

func TestLogClaimShortCircuitsOnLoggedSignature(t *testing.T) {
	db := testDB(t)
	s := &Settler{DB: db, Intents: &IntentStore{DB: db}}
	sig := solana.SignatureFromBytes(bytes.Repeat([]byte{7}, 64)).String()

	require.NoError(t, db.Create(&models.ClaimedRewardsHistory{
		TokenAddress:         "mint",
		CreatorWallet:        "wallet",
		Currency:             "SOL",
		TransactionSignature: sig,
	}).Error)

	// The ledger pre-check fires before the intent lookup and before any
	// chain read, so a second submission of the same signature conflicts
	// even though no intent exists anymore.
	_, err := s.LogClaim(context.Background(), "wallet", "claim-gone", sig)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "already_logged", apiErr.Code)
}

func TestIntentAmountsCarryCurrencyTag(t *testing.T) {
	intent := &models.PendingClaim{
		Currency:    string(utils.CurrencyUSDC),
		DbcFeesRaw:  0,
		DammFeesRaw: 666_666,
	}

	dbcAmount, dammAmount := IntentAmounts(intent)
	assert.Equal(t, utils.CurrencyUSDC, dbcAmount.Currency)
	assert.Equal(t, utils.CurrencyUSDC, dammAmount.Currency)
	assert.InDelta(t, 0.666666, dammAmount.Decimal(), 1e-9)
}
