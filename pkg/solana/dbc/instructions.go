package dbc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	claimCreatorTradingFeeDiscriminator = []byte{0x52, 0xdc, 0xfa, 0xbd, 0x03, 0x55, 0x6b, 0x2d}
	createConfigDiscriminator           = []byte{0xc9, 0xcf, 0xf3, 0x72, 0x4b, 0x6f, 0x2f, 0xbd}
)

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

// NewClaimCreatorTradingFeeInstruction moves the pool's accrued creator fee
// into the creator's token accounts. The creator must sign.
func NewClaimCreatorTradingFeeInstruction(
	poolAddress solana.PublicKey,
	pool *VirtualPool,
	creator solana.PublicKey,
	creatorBaseAccount solana.PublicKey,
	creatorQuoteAccount solana.PublicKey,
	maxBaseAmount uint64,
	maxQuoteAmount uint64,
) (solana.Instruction, error) {
	poolAuthority, err := DerivePoolAuthorityPDA()
	if err != nil {
		return nil, err
	}
	eventAuthority, err := DeriveEventAuthorityPDA()
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(claimCreatorTradingFeeDiscriminator), 24)
	copy(data, claimCreatorTradingFeeDiscriminator)
	data = binary.LittleEndian.AppendUint64(data, maxBaseAmount)
	data = binary.LittleEndian.AppendUint64(data, maxQuoteAmount)

	accounts := []*solana.AccountMeta{
		{PublicKey: poolAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: poolAddress, IsSigner: false, IsWritable: true},
		{PublicKey: creatorBaseAccount, IsSigner: false, IsWritable: true},
		{PublicKey: creatorQuoteAccount, IsSigner: false, IsWritable: true},
		{PublicKey: pool.BaseVault, IsSigner: false, IsWritable: true},
		{PublicKey: pool.QuoteVault, IsSigner: false, IsWritable: true},
		{PublicKey: pool.BaseMint, IsSigner: false, IsWritable: false},
		{PublicKey: pool.QuoteMint, IsSigner: false, IsWritable: false},
		{PublicKey: creator, IsSigner: true, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, accounts, data), nil
}

// CreateConfigParams are the curve parameters committed on chain when a
// project config account is initialized.
type CreateConfigParams struct {
	GraduationThreshold uint64
	FeeTierBps          uint16
	GraceMode           uint8
	VestingCliff        uint32
	VestingDuration     uint32
}

// NewCreateConfigInstruction initializes a pool config account. The config
// keypair and the payer must both sign.
func NewCreateConfigInstruction(
	config solana.PublicKey,
	payer solana.PublicKey,
	params CreateConfigParams,
) (solana.Instruction, error) {
	eventAuthority, err := DeriveEventAuthorityPDA()
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	buf.Write(createConfigDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(params); err != nil {
		return nil, fmt.Errorf("failed to encode config params: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config, IsSigner: true, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: eventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, accounts, buf.Bytes()), nil
}
