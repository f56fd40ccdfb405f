package damm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var claimPositionFeeDiscriminator = []byte{0xb4, 0x26, 0x9a, 0x11, 0x85, 0x21, 0xa2, 0xd3}

// DerivePoolAuthorityPDA returns the program's vault signing authority.
func DerivePoolAuthorityPDA() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte("pool_authority")}, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive pool authority: %w", err)
	}
	return addr, nil
}

// DeriveEventAuthorityPDA returns the anchor event authority account.
func DeriveEventAuthorityPDA() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte("__event_authority")}, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive event authority: %w", err)
	}
	return addr, nil
}

// NewClaimPositionFeeInstruction moves a position's pending fees into the
// owner's token accounts. The position owner must sign.
func NewClaimPositionFeeInstruction(
	poolAddress solana.PublicKey,
	pool *Pool,
	position OwnedPosition,
	positionNftAccount solana.PublicKey,
	ownerTokenAAccount solana.PublicKey,
	ownerTokenBAccount solana.PublicKey,
) (solana.Instruction, error) {
	poolAuthority, err := DerivePoolAuthorityPDA()
	if err != nil {
		return nil, err
	}
	eventAuthority, err := DeriveEventAuthorityPDA()
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(claimPositionFeeDiscriminator))
	copy(data, claimPositionFeeDiscriminator)

	accounts := []*solana.AccountMeta{
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: poolAddress, IsSigner: false, IsWritable: true},
		{PublicKey: position.Address, IsSigner: false, IsWritable: true},
		{PublicKey: ownerTokenAAccount, IsSigner: false, IsWritable: true},
		{PublicKey: ownerTokenBAccount, IsSigner: false, IsWritable: true},
		{PublicKey: pool.TokenAVault, IsSigner: false, IsWritable: true},
		{PublicKey: pool.TokenBVault, IsSigner: false, IsWritable: true},
		{PublicKey: pool.TokenAMint, IsSigner: false, IsWritable: false},
		{PublicKey: pool.TokenBMint, IsSigner: false, IsWritable: false},
		{PublicKey: positionNftAccount, IsSigner: false, IsWritable: false},
		{PublicKey: position.Owner, IsSigner: true, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, accounts, data), nil
}
