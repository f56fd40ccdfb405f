package business

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/models"
	"launchpad/pkg/utils"
)

func TestSharedLPRulesZeroSolAndApplyShare(t *testing.T) {
	a := &Aggregator{SharedLPTokenMint: "SharedMint"}
	state := &TokenFeeState{
		Token:     &models.Token{Mint: "SharedMint"},
		SharedLP:  true,
		DbcAmount: utils.NewAmount(500_000_000, utils.CurrencySOL),
		Damm: &DammFees{
			Sol:  utils.NewAmount(100, utils.CurrencySOL),
			Usdc: utils.NewAmount(1_000_000, utils.CurrencyUSDC),
		},
	}

	a.applySharedLPRules(state)

	assert.Equal(t, uint64(0), state.DbcAmount.Raw)
	assert.Equal(t, utils.CurrencyUSDC, state.DammAmount.Currency)
	assert.Equal(t, uint64(666_666), state.DammAmount.Raw)
	assert.Equal(t, uint64(0), state.MigrationAmount.Raw)
}

func TestSharedLPRulesWithoutDammState(t *testing.T) {
	a := &Aggregator{}
	state := &TokenFeeState{Token: &models.Token{}, SharedLP: true}

	a.applySharedLPRules(state)

	assert.Equal(t, uint64(0), state.DammAmount.Raw)
	assert.Equal(t, utils.CurrencyUSDC, state.DammAmount.Currency)
}

func TestRewardsEntryBucketsByCurrency(t *testing.T) {
	state := &TokenFeeState{
		Token:           &models.Token{Mint: "m", Symbol: "TKN", Name: "Token"},
		DbcAmount:       utils.NewAmount(50_000_000, utils.CurrencySOL),
		DammAmount:      utils.NewAmount(2_000_000, utils.CurrencyUSDC),
		MigrationAmount: utils.NewAmount(0, utils.CurrencySOL),
	}

	entry := rewardsEntry(state)

	assert.InDelta(t, 0.05, entry.DbcSol, 1e-12)
	assert.Zero(t, entry.DbcUsdc)
	assert.InDelta(t, 2.0, entry.DammUsdc, 1e-12)
	assert.Zero(t, entry.DammSol)
	assert.InDelta(t, 0.05, entry.ClaimableSol, 1e-12)
	assert.InDelta(t, 2.0, entry.ClaimableUsdc, 1e-12)
}

func TestSortValueRanksUsdcAtDivisor(t *testing.T) {
	entries := []TokenRewards{
		{Mint: "usdc-heavy", ClaimableUsdc: 300},
		{Mint: "sol-heavy", ClaimableSol: 2},
		{Mint: "small", ClaimableSol: 0.001},
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return sortValue(entries[i]) > sortValue(entries[j])
	})

	// 2 SOL outranks 300 USDC (300/200 = 1.5 SOL-equivalent).
	assert.Equal(t, "sol-heavy", entries[0].Mint)
	assert.Equal(t, "usdc-heavy", entries[1].Mint)
	assert.Equal(t, "small", entries[2].Mint)
}

func TestClaimableRequiresNonDustComponent(t *testing.T) {
	state := &TokenFeeState{
		DbcAmount:       utils.NewAmount(999_999, utils.CurrencySOL),
		DammAmount:      utils.NewAmount(999, utils.CurrencyUSDC),
		MigrationAmount: utils.NewAmount(0, utils.CurrencySOL),
	}
	assert.False(t, state.Claimable())

	state.DbcAmount = utils.NewAmount(1_000_000, utils.CurrencySOL)
	assert.True(t, state.Claimable())
}

func TestWalletRewardsIsolatesFailingToken(t *testing.T) {
	db := testDB(t)
	wallet := "creator-wallet"
	require.NoError(t, db.Create(&models.Token{Mint: "aaa", Symbol: "AAA", Name: "Alpha", Creator: wallet}).Error)
	// Base58 rejects this pool address, so the fee fetch fails before any
	// RPC call is attempted.
	require.NoError(t, db.Create(&models.Token{Mint: "bbb", Symbol: "BBB", Name: "Beta", Creator: wallet, PoolAddress: "not-a-valid-pool"}).Error)
	require.NoError(t, db.Create(&models.Token{Mint: "ccc", Symbol: "CCC", Name: "Gamma", Creator: wallet}).Error)

	a := &Aggregator{DB: db, Fees: &FeeFetcher{}}
	res, err := a.WalletRewards(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, res.Tokens, 3)

	byMint := make(map[string]TokenRewards)
	for _, e := range res.Tokens {
		byMint[e.Mint] = e
	}
	broken, ok := byMint["bbb"]
	require.True(t, ok, "failing token must still appear in the breakdown")
	assert.Zero(t, broken.ClaimableSol)
	assert.Zero(t, broken.ClaimableUsdc)
	assert.Equal(t, "BBB", broken.Symbol)

	assert.Zero(t, res.TotalSol)
	assert.Zero(t, res.TotalUsdc)
}

func TestCurrencyFollowsSharedLPFlag(t *testing.T) {
	direct := &TokenFeeState{DbcAmount: utils.NewAmount(0, utils.CurrencySOL)}
	assert.Equal(t, utils.CurrencySOL, direct.Currency())

	shared := &TokenFeeState{SharedLP: true}
	assert.Equal(t, utils.CurrencyUSDC, shared.Currency())
}

func TestCurrencyFallsBackToAmmSide(t *testing.T) {
	// A token with no bonding-curve pool carries an untagged DbcAmount; the
	// AMM denomination must win over the SOL column default.
	ammOnly := &TokenFeeState{DammAmount: utils.NewAmount(2_000_000, utils.CurrencyUSDC)}
	assert.Equal(t, utils.CurrencyUSDC, ammOnly.Currency())

	empty := &TokenFeeState{}
	assert.Equal(t, utils.CurrencySOL, empty.Currency())
}
