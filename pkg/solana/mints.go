package solana

import (
	"github.com/gagliardetto/solana-go"

	"launchpad/pkg/utils"
)

// Well-known mint and program addresses.
var (
	WSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDCMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

// QuoteCurrency maps a pool quote mint to its denomination. Anything that is
// not the USDC mint is reported as SOL, including unrecognized mints, so a
// malformed pool never silently switches a ledger row to six decimals.
func QuoteCurrency(quoteMint solana.PublicKey) utils.Currency {
	if quoteMint.Equals(USDCMint) {
		return utils.CurrencyUSDC
	}
	return utils.CurrencySOL
}
