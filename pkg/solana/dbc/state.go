// Package dbc reads and writes against the dynamic bonding curve program
// that launches tokens before graduation. Account layouts are decoded as
// borsh behind the standard 8-byte anchor discriminator.
package dbc

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	chain "launchpad/pkg/solana"
)

// ProgramID is the dynamic bonding curve program.
var ProgramID = solana.MustPublicKeyFromBase58("dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN")

var (
	virtualPoolDiscriminator = []byte{0xd5, 0xe0, 0x05, 0xd1, 0x62, 0x45, 0x77, 0x5c}
	poolConfigDiscriminator  = []byte{0x1a, 0x6c, 0x0e, 0x7b, 0x74, 0xe6, 0x81, 0x2b}
)

// VirtualPool is the on-chain state of one bonding-curve pool. Creator fee
// fields accumulate unclaimed trading fees in raw token units.
type VirtualPool struct {
	Config            solana.PublicKey
	Creator           solana.PublicKey
	BaseMint          solana.PublicKey
	QuoteMint         solana.PublicKey
	BaseVault         solana.PublicKey
	QuoteVault        solana.PublicKey
	BaseReserve       uint64
	QuoteReserve      uint64
	ProtocolBaseFee   uint64
	ProtocolQuoteFee  uint64
	PartnerBaseFee    uint64
	PartnerQuoteFee   uint64
	CreatorBaseFee    uint64
	CreatorQuoteFee   uint64
	IsMigrated        uint8
	MigrationProgress uint8
}

// Validate rejects pool state that would poison downstream fee accounting.
// Zeroed mints mean the account bytes did not line up with the expected
// layout, so the state is refused instead of being interpreted as zero fees.
func (p *VirtualPool) Validate() error {
	if p.BaseMint.IsZero() {
		return errors.New("virtual pool has zero base mint")
	}
	if p.QuoteMint.IsZero() {
		return errors.New("virtual pool has zero quote mint")
	}
	if p.Creator.IsZero() {
		return errors.New("virtual pool has zero creator")
	}
	return nil
}

// Migrated reports whether the pool has graduated to the AMM.
func (p *VirtualPool) Migrated() bool {
	return p.IsMigrated != 0
}

// DecodeVirtualPool parses raw account bytes into validated pool state.
func DecodeVirtualPool(data []byte) (*VirtualPool, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("virtual pool account too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], virtualPoolDiscriminator) {
		return nil, errors.New("account is not a virtual pool")
	}

	var pool VirtualPool
	if err := bin.NewBorshDecoder(data[8:]).Decode(&pool); err != nil {
		return nil, fmt.Errorf("failed to decode virtual pool: %w", err)
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return &pool, nil
}

// FetchPool loads and decodes a bonding-curve pool. Returns nil without
// error when the pool account does not exist.
func FetchPool(ctx context.Context, client *chain.Client, address solana.PublicKey) (*VirtualPool, error) {
	data, err := client.GetAccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return DecodeVirtualPool(data)
}
