// Package business holds the reward accounting core: on-chain fee reads,
// per-wallet aggregation, claim intents, transaction assembly and
// settlement. Handlers stay thin; everything with protocol reasoning in it
// lives here.
package business

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	chain "launchpad/pkg/solana"
	"launchpad/pkg/solana/damm"
	"launchpad/pkg/solana/dbc"
	"launchpad/pkg/utils"
)

// FeeFetcher reads unclaimed fee state for a single token. Every method
// returns explicit errors; the caller decides whether to degrade to zero
// (display) or propagate (settlement). The fetcher itself never swallows.
type FeeFetcher struct {
	Client *chain.Client
}

// DbcFees is one bonding-curve pool's unclaimed creator fee together with
// the raw pool snapshot, which claim preparation hands to the client so it
// can build the claim transaction without a second RPC round trip.
type DbcFees struct {
	Pool        *dbc.VirtualPool
	PoolAddress solana.PublicKey
	CreatorFee  utils.Amount
}

// DammFees is one constant-product pool's unclaimed LP fees for a wallet,
// summed over all of the wallet's open positions and bucketed into SOL and
// USDC by mint. Fees accruing in the launched token itself are not creator
// rewards and are excluded from both buckets.
type DammFees struct {
	Pool        *damm.Pool
	PoolAddress solana.PublicKey
	Positions   []damm.OwnedPosition
	Sol         utils.Amount
	Usdc        utils.Amount
}

// DbcCreatorFee fetches the bonding-curve pool and its unclaimed creator
// fee. A missing pool account is an error here; only the aggregator's
// display path is allowed to interpret that as zero.
func (f *FeeFetcher) DbcCreatorFee(ctx context.Context, poolAddress string) (*DbcFees, error) {
	addr, err := solana.PublicKeyFromBase58(poolAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid pool address %q: %w", poolAddress, err)
	}

	pool, err := dbc.FetchPool(ctx, f.Client, addr)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("bonding curve pool %s not found", poolAddress)
	}

	return &DbcFees{
		Pool:        pool,
		PoolAddress: addr,
		CreatorFee:  pool.UnclaimedCreatorFee(),
	}, nil
}

// DammLPFees fetches the AMM pool and every position the owner wallet holds
// in it, then totals the pending fees per denomination.
func (f *FeeFetcher) DammLPFees(ctx context.Context, poolAddress string, owner solana.PublicKey) (*DammFees, error) {
	addr, err := solana.PublicKeyFromBase58(poolAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid pool address %q: %w", poolAddress, err)
	}

	pool, err := damm.FetchPool(ctx, f.Client, addr)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("amm pool %s not found", poolAddress)
	}

	positions, err := damm.WalletPositions(ctx, f.Client, addr, owner)
	if err != nil {
		return nil, err
	}

	feeA, feeB := damm.SumPendingFees(positions)
	fees := &DammFees{
		Pool:        pool,
		PoolAddress: addr,
		Positions:   positions,
		Sol:         utils.NewAmount(0, utils.CurrencySOL),
		Usdc:        utils.NewAmount(0, utils.CurrencyUSDC),
	}
	fees.bucket(pool.TokenAMint, feeA)
	fees.bucket(pool.TokenBMint, feeB)
	return fees, nil
}

func (d *DammFees) bucket(mint solana.PublicKey, raw uint64) {
	switch {
	case mint.Equals(chain.WSOLMint):
		d.Sol.Raw += raw
	case mint.Equals(chain.USDCMint):
		d.Usdc.Raw += raw
	}
}
