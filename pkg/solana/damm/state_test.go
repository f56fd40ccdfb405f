package damm

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePosition(t *testing.T, pos Position) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	buf.Write(positionDiscriminator)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(pos))
	return buf.Bytes()
}

func TestDecodePositionRoundTrip(t *testing.T) {
	want := Position{
		Pool:        solana.NewWallet().PublicKey(),
		NftMint:     solana.NewWallet().PublicKey(),
		Owner:       solana.NewWallet().PublicKey(),
		FeeAPending: 1_500,
		FeeBPending: 2_000_000,
	}

	got, err := DecodePosition(encodePosition(t, want))
	require.NoError(t, err)
	assert.Equal(t, want.Pool, got.Pool)
	assert.Equal(t, want.Owner, got.Owner)
	assert.Equal(t, want.FeeAPending, got.FeeAPending)
	assert.Equal(t, want.FeeBPending, got.FeeBPending)
}

func TestDecodePositionRejectsWrongDiscriminator(t *testing.T) {
	data := encodePosition(t, Position{})
	data[0] ^= 0xff

	_, err := DecodePosition(data)
	assert.Error(t, err)
}

func TestMemcmpOffsetsMatchEncodedLayout(t *testing.T) {
	pos := Position{
		Pool:  solana.NewWallet().PublicKey(),
		Owner: solana.NewWallet().PublicKey(),
	}
	data := encodePosition(t, pos)

	assert.Equal(t, pos.Pool.Bytes(), data[positionPoolOffset:positionPoolOffset+32])
	assert.Equal(t, pos.Owner.Bytes(), data[positionOwnerOffset:positionOwnerOffset+32])
}

func TestDecodePoolRejectsZeroMints(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.Write(poolDiscriminator)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(Pool{}))

	_, err := DecodePool(buf.Bytes())
	assert.Error(t, err)
}

func TestSumPendingFees(t *testing.T) {
	positions := []OwnedPosition{
		{Position: Position{FeeAPending: 100, FeeBPending: 3}},
		{Position: Position{FeeAPending: 50, FeeBPending: 7}},
		{Position: Position{}},
	}

	feeA, feeB := SumPendingFees(positions)
	assert.Equal(t, uint64(150), feeA)
	assert.Equal(t, uint64(10), feeB)
}
