package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitShareExactness(t *testing.T) {
	cases := []struct {
		total         uint64
		wantShare     uint64
		wantRemainder uint64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 1, 1},
		{3, 2, 1},
		{10, 6, 4},
		{1_000_000, 666_666, 333_334},
		{999_999_999_999, 666_666_666_666, 333_333_333_333},
		// The product exceeds 64 bits here; the floor must still hold.
		{math.MaxUint64, 12_297_829_382_473_034_410, 6_148_914_691_236_517_205},
	}
	for _, tc := range cases {
		share, remainder := SplitShare(tc.total, 2, 3)
		assert.Equal(t, tc.wantShare, share, "share for %d", tc.total)
		assert.Equal(t, tc.wantRemainder, remainder, "remainder for %d", tc.total)
		assert.Equal(t, tc.total, share+remainder, "parts must sum to total for %d", tc.total)
	}
}

func TestSplitShareSumsForRange(t *testing.T) {
	for total := uint64(0); total < 10_000; total++ {
		share, remainder := SplitShare(total, 2, 3)
		if share+remainder != total {
			t.Fatalf("split of %d lost units: %d + %d", total, share, remainder)
		}
	}
}

func TestDecimalsByCurrency(t *testing.T) {
	assert.Equal(t, 6, CurrencyUSDC.Decimals())
	assert.Equal(t, 9, CurrencySOL.Decimals())
	assert.Equal(t, 9, Currency("WETH").Decimals())
}

func TestAmountDecimal(t *testing.T) {
	assert.InDelta(t, 0.666666, NewAmount(666_666, CurrencyUSDC).Decimal(), 1e-9)
	assert.InDelta(t, 0.05, NewAmount(50_000_000, CurrencySOL).Decimal(), 1e-12)
}

func TestAmountDust(t *testing.T) {
	assert.True(t, NewAmount(999, CurrencyUSDC).IsDust())
	assert.False(t, NewAmount(1_000, CurrencyUSDC).IsDust())
	assert.True(t, NewAmount(999_999, CurrencySOL).IsDust())
	assert.False(t, NewAmount(1_000_000, CurrencySOL).IsDust())
}

func TestAddRefusesMixedCurrencies(t *testing.T) {
	sol := NewAmount(100, CurrencySOL)
	usdc := NewAmount(50, CurrencyUSDC)
	got := sol.Add(usdc)
	assert.Equal(t, sol, got)
	assert.Equal(t, uint64(150), sol.Add(NewAmount(50, CurrencySOL)).Raw)
}
