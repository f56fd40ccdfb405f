package business

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/models"
	"launchpad/pkg/solana/damm"
	"launchpad/pkg/solana/dbc"
	"launchpad/pkg/utils"
)

func directClaimFixture(creator solana.PublicKey) *TokenFeeState {
	quoteMint := solana.NewWallet().PublicKey()
	return &TokenFeeState{
		Token: &models.Token{Mint: "mint", Creator: creator.String()},
		Dbc: &DbcFees{
			Pool: &dbc.VirtualPool{
				Creator:         creator,
				BaseMint:        solana.NewWallet().PublicKey(),
				QuoteMint:       quoteMint,
				BaseVault:       solana.NewWallet().PublicKey(),
				QuoteVault:      solana.NewWallet().PublicKey(),
				CreatorQuoteFee: 2_000_000,
			},
			PoolAddress: solana.NewWallet().PublicKey(),
		},
		DbcAmount: utils.NewAmount(2_000_000, utils.CurrencySOL),
		Damm: &DammFees{
			Pool: &damm.Pool{
				TokenAMint:  solana.NewWallet().PublicKey(),
				TokenBMint:  quoteMint,
				TokenAVault: solana.NewWallet().PublicKey(),
				TokenBVault: solana.NewWallet().PublicKey(),
			},
			PoolAddress: solana.NewWallet().PublicKey(),
			Positions: []damm.OwnedPosition{{
				Address: solana.NewWallet().PublicKey(),
				Position: damm.Position{
					NftMint:     solana.NewWallet().PublicKey(),
					Owner:       creator,
					FeeBPending: 5_000_000,
				},
			}},
		},
		DammAmount: utils.NewAmount(5_000_000, utils.CurrencySOL),
	}
}

func hasSigner(ix solana.Instruction, wanted solana.PublicKey) bool {
	for _, meta := range ix.Accounts() {
		if meta.IsSigner && meta.PublicKey.Equals(wanted) {
			return true
		}
	}
	return false
}

func TestDirectClaimInstructionsCreateMissingAccountsFirst(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	state := directClaimFixture(creator)

	noAccounts := func(solana.PublicKey) (bool, error) { return false, nil }
	instructions, err := directClaimInstructions(state, creator, noAccounts)
	require.NoError(t, err)

	// Base, quote and token A accounts need creating; token B shares the
	// quote mint so its account is only created once. Then one curve claim
	// and one claim per position.
	require.Len(t, instructions, 5)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, instructions[0].ProgramID())
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, instructions[1].ProgramID())
	assert.Equal(t, dbc.ProgramID, instructions[2].ProgramID())
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, instructions[3].ProgramID())
	assert.Equal(t, damm.ProgramID, instructions[4].ProgramID())

	assert.True(t, hasSigner(instructions[2], creator), "creator must sign the curve fee claim")
	assert.True(t, hasSigner(instructions[4], creator), "creator must sign the position fee claim")
}

func TestDirectClaimInstructionsSkipExistingAccounts(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	state := directClaimFixture(creator)

	allExist := func(solana.PublicKey) (bool, error) { return true, nil }
	instructions, err := directClaimInstructions(state, creator, allExist)
	require.NoError(t, err)

	require.Len(t, instructions, 2)
	assert.Equal(t, dbc.ProgramID, instructions[0].ProgramID())
	assert.Equal(t, damm.ProgramID, instructions[1].ProgramID())
}

func TestDirectClaimInstructionsSkipDustComponents(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	state := directClaimFixture(creator)
	state.DammAmount = utils.NewAmount(999_999, utils.CurrencySOL)

	allExist := func(solana.PublicKey) (bool, error) { return true, nil }
	instructions, err := directClaimInstructions(state, creator, allExist)
	require.NoError(t, err)

	require.Len(t, instructions, 1)
	assert.Equal(t, dbc.ProgramID, instructions[0].ProgramID())
}

func TestDirectClaimRefusesSharedLPToken(t *testing.T) {
	b := &DirectClaimBuilder{}
	_, err := b.Build(context.Background(), &TokenFeeState{SharedLP: true})
	assert.Error(t, err)
}
