package business

import (
	"context"
	"encoding/base64"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"

	"launchpad/internal/apierr"
	chain "launchpad/pkg/solana"
	"launchpad/pkg/solana/damm"
	"launchpad/pkg/solana/dbc"
)

// DirectClaimBuilder assembles the unsigned claim transaction for a token
// whose LP positions the creator holds directly: the bonding-curve creator
// fee claim plus one AMM fee claim per open position, fee-paid by the
// creator. The client signs and submits; settlement later checks that the
// fee payer is the creator.
type DirectClaimBuilder struct {
	Client *chain.Client
}

// accountChecker reports whether a token account already exists on chain.
type accountChecker func(solana.PublicKey) (bool, error)

// Build serializes the direct-claim transaction for the given fee state.
// Shared-LP tokens never take this path; their claim is platform-paid.
func (b *DirectClaimBuilder) Build(ctx context.Context, state *TokenFeeState) (string, error) {
	if state.SharedLP {
		return "", apierr.Validation("wrong_token", "shared LP tokens use the split-payment flow")
	}

	creator, err := solana.PublicKeyFromBase58(state.Token.Creator)
	if err != nil {
		return "", apierr.Validation("invalid_wallet", "creator wallet is not a valid address")
	}

	exists := func(account solana.PublicKey) (bool, error) {
		return b.Client.AccountExists(ctx, account)
	}
	instructions, err := directClaimInstructions(state, creator, exists)
	if err != nil {
		return "", err
	}
	if len(instructions) == 0 {
		return "", apierr.Validation("no_fees", "no fees available to claim")
	}

	blockhash, err := b.Client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", apierr.Chain("chain_unavailable", "failed to get blockhash", err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(creator))
	if err != nil {
		return "", apierr.Internal("failed to assemble transaction", err)
	}
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return "", apierr.Internal("failed to serialize transaction", err)
	}
	return base64.StdEncoding.EncodeToString(serialized), nil
}

// directClaimInstructions orders account creation ahead of the claims: every
// destination token account the creator is missing gets created first, then
// the bonding-curve fee claim, then one AMM claim per position. Components
// below the dust threshold are skipped entirely.
func directClaimInstructions(
	state *TokenFeeState,
	creator solana.PublicKey,
	exists accountChecker,
) ([]solana.Instruction, error) {
	var instructions []solana.Instruction
	ensured := make(map[solana.PublicKey]bool)

	ensure := func(mint solana.PublicKey) (solana.PublicKey, error) {
		account, _, err := solana.FindAssociatedTokenAddress(creator, mint)
		if err != nil {
			return solana.PublicKey{}, apierr.Internal("failed to derive creator token account", err)
		}
		if ensured[account] {
			return account, nil
		}
		found, err := exists(account)
		if err != nil {
			return solana.PublicKey{}, apierr.Chain("chain_unavailable", "failed to check creator token account", err)
		}
		if !found {
			instructions = append(instructions,
				associatedtokenaccount.NewCreateInstruction(creator, creator, mint).Build())
		}
		ensured[account] = true
		return account, nil
	}

	if state.Dbc != nil && !state.DbcAmount.IsDust() {
		pool := state.Dbc.Pool
		baseAccount, err := ensure(pool.BaseMint)
		if err != nil {
			return nil, err
		}
		quoteAccount, err := ensure(pool.QuoteMint)
		if err != nil {
			return nil, err
		}
		claimIx, err := dbc.NewClaimCreatorTradingFeeInstruction(
			state.Dbc.PoolAddress, pool, creator, baseAccount, quoteAccount,
			pool.CreatorBaseFee, pool.CreatorQuoteFee)
		if err != nil {
			return nil, apierr.Internal("failed to build creator fee claim", err)
		}
		instructions = append(instructions, claimIx)
	}

	if state.Damm != nil && !state.DammAmount.IsDust() {
		pool := state.Damm.Pool
		tokenA, err := ensure(pool.TokenAMint)
		if err != nil {
			return nil, err
		}
		tokenB, err := ensure(pool.TokenBMint)
		if err != nil {
			return nil, err
		}
		for _, position := range state.Damm.Positions {
			nftAccount, _, err := solana.FindAssociatedTokenAddress(creator, position.NftMint)
			if err != nil {
				return nil, apierr.Internal("failed to derive position NFT account", err)
			}
			claimIx, err := damm.NewClaimPositionFeeInstruction(
				state.Damm.PoolAddress, pool, position, nftAccount, tokenA, tokenB)
			if err != nil {
				return nil, apierr.Internal("failed to build position fee claim", err)
			}
			instructions = append(instructions, claimIx)
		}
	}

	return instructions, nil
}
