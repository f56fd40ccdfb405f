package business

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"

	"launchpad/internal/apierr"
	chain "launchpad/pkg/solana"
	"launchpad/pkg/solana/damm"
	"launchpad/pkg/utils"
)

// SplitClaimBuilder assembles the split-payment claim for the shared-LP
// token: the platform wallet claims its LP fees, forwards the creator's
// floor share in USDC, and the creator countersigns a memo receipt. The
// returned transaction is fee-paid and partially signed by the platform;
// the client adds the creator signature and submits.
type SplitClaimBuilder struct {
	Client *chain.Client
	Fees   *FeeFetcher
	// Signer for the wallet holding the platform-side LP positions.
	Signer *chain.Signer

	TokenMint   string
	PoolAddress string
}

// SplitClaim is the prepared split-payment transaction plus the exact share
// arithmetic the intent will pin.
type SplitClaim struct {
	SerializedTransaction string
	Total                 utils.Amount
	CreatorShare          utils.Amount
	PlatformShare         utils.Amount
	Fees                  *DammFees
}

// Build prepares the split-payment claim for the creator wallet. The shares
// are computed as floor(total*2/3) for the creator with the remainder kept
// by the platform, so the two always sum exactly to the claimed total.
func (b *SplitClaimBuilder) Build(ctx context.Context, creatorWallet string) (*SplitClaim, error) {
	if b.Signer == nil {
		return nil, apierr.Internal("split-payment signer not configured", nil)
	}
	if b.PoolAddress == "" {
		return nil, apierr.Validation("no_pool", "shared LP pool is not configured")
	}

	creator, err := solana.PublicKeyFromBase58(creatorWallet)
	if err != nil {
		return nil, apierr.Validation("invalid_wallet", "creator wallet is not a valid address")
	}
	platform := b.Signer.PublicKey()

	fees, err := b.Fees.DammLPFees(ctx, b.PoolAddress, platform)
	if err != nil {
		return nil, apierr.Chain("chain_unavailable", "failed to read LP fee state", err)
	}

	total := fees.Usdc
	if total.IsDust() {
		return nil, apierr.Validation("no_fees", "no fees available to claim")
	}
	shareRaw, remainderRaw := utils.SplitShare(total.Raw, creatorShareNumerator, creatorShareDenominator)
	creatorShare := utils.NewAmount(shareRaw, utils.CurrencyUSDC)
	platformShare := utils.NewAmount(remainderRaw, utils.CurrencyUSDC)

	instructions, err := b.buildInstructions(ctx, fees, creator, platform, creatorShare)
	if err != nil {
		return nil, err
	}

	blockhash, err := b.Client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, apierr.Chain("chain_unavailable", "failed to get blockhash", err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(platform))
	if err != nil {
		return nil, apierr.Internal("failed to assemble transaction", err)
	}
	if err := b.Signer.PartialSign(tx); err != nil {
		return nil, apierr.Internal("failed to sign transaction", err)
	}

	serialized, err := tx.MarshalBinary()
	if err != nil {
		return nil, apierr.Internal("failed to serialize transaction", err)
	}

	return &SplitClaim{
		SerializedTransaction: base64.StdEncoding.EncodeToString(serialized),
		Total:                 total,
		CreatorShare:          creatorShare,
		PlatformShare:         platformShare,
		Fees:                  fees,
	}, nil
}

// buildInstructions orders the claim ahead of the transfer and memo: claim
// every platform position's fees into the platform accounts, create the
// creator's USDC account if it does not exist yet, move the creator share,
// and append the creator-signed memo receipt.
func (b *SplitClaimBuilder) buildInstructions(
	ctx context.Context,
	fees *DammFees,
	creator, platform solana.PublicKey,
	creatorShare utils.Amount,
) ([]solana.Instruction, error) {
	platformTokenA, _, err := solana.FindAssociatedTokenAddress(platform, fees.Pool.TokenAMint)
	if err != nil {
		return nil, apierr.Internal("failed to derive platform token account", err)
	}
	platformTokenB, _, err := solana.FindAssociatedTokenAddress(platform, fees.Pool.TokenBMint)
	if err != nil {
		return nil, apierr.Internal("failed to derive platform token account", err)
	}
	platformUsdc, _, err := solana.FindAssociatedTokenAddress(platform, chain.USDCMint)
	if err != nil {
		return nil, apierr.Internal("failed to derive platform USDC account", err)
	}

	var instructions []solana.Instruction
	for _, position := range fees.Positions {
		nftAccount, _, err := solana.FindAssociatedTokenAddress(platform, position.NftMint)
		if err != nil {
			return nil, apierr.Internal("failed to derive position NFT account", err)
		}
		claimIx, err := damm.NewClaimPositionFeeInstruction(
			fees.PoolAddress, fees.Pool, position, nftAccount, platformTokenA, platformTokenB)
		if err != nil {
			return nil, apierr.Internal("failed to build claim instruction", err)
		}
		instructions = append(instructions, claimIx)
	}

	creatorUsdc, _, err := solana.FindAssociatedTokenAddress(creator, chain.USDCMint)
	if err != nil {
		return nil, apierr.Internal("failed to derive creator USDC account", err)
	}
	exists, err := b.Client.AccountExists(ctx, creatorUsdc)
	if err != nil {
		return nil, apierr.Chain("chain_unavailable", "failed to check creator token account", err)
	}
	if !exists {
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(platform, creator, chain.USDCMint).Build())
	}

	instructions = append(instructions,
		token.NewTransferInstruction(creatorShare.Raw, platformUsdc, creatorUsdc, platform, nil).Build())

	memo := fmt.Sprintf("Creator reward payout: %.6f USDC for %s", creatorShare.Decimal(), b.TokenMint)
	instructions = append(instructions, newMemoInstruction(memo, creator))

	return instructions, nil
}

// newMemoInstruction builds a memo that requires the given wallet's
// signature. Verification later checks that signature as the creator's
// acknowledgment of the payout.
func newMemoInstruction(text string, signer solana.PublicKey) solana.Instruction {
	accounts := []*solana.AccountMeta{
		{PublicKey: signer, IsSigner: true, IsWritable: false},
	}
	return solana.NewInstruction(chain.MemoProgramID, accounts, []byte(text))
}
