package dbc

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/pkg/utils"
)

func encodePool(t *testing.T, pool VirtualPool) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	buf.Write(virtualPoolDiscriminator)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(pool))
	return buf.Bytes()
}

func samplePool() VirtualPool {
	return VirtualPool{
		Config:           solana.NewWallet().PublicKey(),
		Creator:          solana.NewWallet().PublicKey(),
		BaseMint:         solana.NewWallet().PublicKey(),
		QuoteMint:        solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		BaseVault:        solana.NewWallet().PublicKey(),
		QuoteVault:       solana.NewWallet().PublicKey(),
		BaseReserve:      1_000_000_000,
		QuoteReserve:     500_000_000,
		CreatorBaseFee:   12_345,
		CreatorQuoteFee:  50_000_000,
		PartnerQuoteFee:  7_000,
		IsMigrated:       0,
	}
}

func TestDecodeVirtualPoolRoundTrip(t *testing.T) {
	want := samplePool()
	got, err := DecodeVirtualPool(encodePool(t, want))
	require.NoError(t, err)

	assert.Equal(t, want.Creator, got.Creator)
	assert.Equal(t, want.QuoteMint, got.QuoteMint)
	assert.Equal(t, want.CreatorQuoteFee, got.CreatorQuoteFee)
	assert.False(t, got.Migrated())
}

func TestDecodeVirtualPoolRejectsWrongDiscriminator(t *testing.T) {
	data := encodePool(t, samplePool())
	data[0] ^= 0xff

	_, err := DecodeVirtualPool(data)
	assert.Error(t, err)
}

func TestDecodeVirtualPoolRejectsShortData(t *testing.T) {
	_, err := DecodeVirtualPool([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestDecodeVirtualPoolRejectsZeroMints(t *testing.T) {
	pool := samplePool()
	pool.QuoteMint = solana.PublicKey{}

	_, err := DecodeVirtualPool(encodePool(t, pool))
	assert.Error(t, err)
}

func TestUnclaimedCreatorFeeCurrencyTagging(t *testing.T) {
	pool := samplePool()
	fee := pool.UnclaimedCreatorFee()
	assert.Equal(t, utils.CurrencySOL, fee.Currency)
	assert.Equal(t, uint64(50_000_000), fee.Raw)

	pool.QuoteMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	fee = pool.UnclaimedCreatorFee()
	assert.Equal(t, utils.CurrencyUSDC, fee.Currency)
}

func TestUnrecognizedQuoteMintDefaultsToSol(t *testing.T) {
	pool := samplePool()
	pool.QuoteMint = solana.NewWallet().PublicKey()

	fee := pool.UnclaimedCreatorFee()
	assert.Equal(t, utils.CurrencySOL, fee.Currency)
}
