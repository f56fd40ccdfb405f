package business

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/apierr"
	chain "launchpad/pkg/solana"
)

func TestMemoInstructionRequiresSigner(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	ix := newMemoInstruction("Creator reward payout: 0.666666 USDC for mint", creator)

	assert.Equal(t, chain.MemoProgramID, ix.ProgramID())
	accounts := ix.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, creator, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Contains(t, string(data), "0.666666 USDC")
}

func TestBuildFailsWithoutSigner(t *testing.T) {
	b := &SplitClaimBuilder{}

	_, err := b.Build(context.Background(), solana.NewWallet().PublicKey().String())
	require.Error(t, err)
	assert.Equal(t, "internal_error", apierr.From(err).Code)
}

func TestBuildRejectsMissingPool(t *testing.T) {
	signer, err := chain.NewSigner(solana.NewWallet().PrivateKey.String())
	require.NoError(t, err)

	b := &SplitClaimBuilder{Signer: signer}
	_, err = b.Build(context.Background(), solana.NewWallet().PublicKey().String())
	require.Error(t, err)
	assert.Equal(t, "no_pool", apierr.From(err).Code)
}
