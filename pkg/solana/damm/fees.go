package damm

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	chain "launchpad/pkg/solana"
)

// OwnedPosition pairs a decoded position with its account address, which
// later becomes an instruction account in the fee claim.
type OwnedPosition struct {
	Address solana.PublicKey
	Position
}

// WalletPositions returns every open position the owner holds in the given
// pool. A wallet may hold several positions, so unclaimed fees must be
// summed over all of them.
func WalletPositions(ctx context.Context, client *chain.Client, pool, owner solana.PublicKey) ([]OwnedPosition, error) {
	accounts, err := client.RPC().GetProgramAccountsWithOpts(ctx, ProgramID, &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: positionDiscriminator}},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: positionPoolOffset, Bytes: pool.Bytes()}},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: positionOwnerOffset, Bytes: owner.Bytes()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list positions for %s in pool %s: %w", owner, pool, err)
	}

	positions := make([]OwnedPosition, 0, len(accounts))
	for _, account := range accounts {
		pos, err := DecodePosition(account.Account.Data.GetBinary())
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", account.Pubkey, err)
		}
		positions = append(positions, OwnedPosition{Address: account.Pubkey, Position: *pos})
	}
	return positions, nil
}

// SumPendingFees totals unclaimed fees across positions, per pool side.
func SumPendingFees(positions []OwnedPosition) (feeA, feeB uint64) {
	for _, pos := range positions {
		feeA += pos.FeeAPending
		feeB += pos.FeeBPending
	}
	return feeA, feeB
}
