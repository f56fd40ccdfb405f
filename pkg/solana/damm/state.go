// Package damm reads and writes against the constant-product AMM that
// graduated tokens trade on. LP fee accrual lives on per-wallet position
// accounts keyed by an ownership NFT.
package damm

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	chain "launchpad/pkg/solana"
)

// ProgramID is the constant-product AMM program.
var ProgramID = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

var (
	poolDiscriminator     = []byte{0xf1, 0x9a, 0x6d, 0x04, 0x11, 0xb1, 0x6d, 0xbc}
	positionDiscriminator = []byte{0xaa, 0xbc, 0x8f, 0xe4, 0x7a, 0x40, 0xf7, 0xd0}
)

// Position account layout offsets used by memcmp filters.
const (
	positionPoolOffset  = 8
	positionOwnerOffset = 72
)

// Pool is the on-chain state of one constant-product pool.
type Pool struct {
	TokenAMint  solana.PublicKey
	TokenBMint  solana.PublicKey
	TokenAVault solana.PublicKey
	TokenBVault solana.PublicKey
	Liquidity   bin.Uint128
	SqrtPrice   bin.Uint128
}

// Validate rejects pool state whose bytes did not line up with the expected
// layout rather than letting zeroed mints flow into fee accounting.
func (p *Pool) Validate() error {
	if p.TokenAMint.IsZero() || p.TokenBMint.IsZero() {
		return errors.New("pool has zero token mint")
	}
	if p.TokenAVault.IsZero() || p.TokenBVault.IsZero() {
		return errors.New("pool has zero token vault")
	}
	return nil
}

// Position is one wallet's LP stake in a pool. Pending fee fields accrue
// unclaimed trading fees in raw units of each paired token.
type Position struct {
	Pool        solana.PublicKey
	NftMint     solana.PublicKey
	Owner       solana.PublicKey
	Liquidity   bin.Uint128
	FeeAPending uint64
	FeeBPending uint64
}

// DecodePool parses raw account bytes into validated pool state.
func DecodePool(data []byte) (*Pool, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("pool account too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], poolDiscriminator) {
		return nil, errors.New("account is not an amm pool")
	}

	var pool Pool
	if err := bin.NewBorshDecoder(data[8:]).Decode(&pool); err != nil {
		return nil, fmt.Errorf("failed to decode pool: %w", err)
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return &pool, nil
}

// DecodePosition parses raw account bytes into a position.
func DecodePosition(data []byte) (*Position, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("position account too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], positionDiscriminator) {
		return nil, errors.New("account is not a position")
	}

	var pos Position
	if err := bin.NewBorshDecoder(data[8:]).Decode(&pos); err != nil {
		return nil, fmt.Errorf("failed to decode position: %w", err)
	}
	return &pos, nil
}

// FetchPool loads and decodes an AMM pool. Returns nil without error when
// the pool account does not exist.
func FetchPool(ctx context.Context, client *chain.Client, address solana.PublicKey) (*Pool, error) {
	data, err := client.GetAccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return DecodePool(data)
}
