package utils

import (
	"math"
	"math/bits"
)

// Currency identifies the quote-token denomination of an amount. Ledger and
// intent columns keep their historical sol-suffixed names, so the tag is the
// only thing that distinguishes a SOL value from a USDC value.
type Currency string

const (
	CurrencySOL  Currency = "SOL"
	CurrencyUSDC Currency = "USDC"
)

// Decimals returns the on-chain decimal count for the currency. Anything
// unrecognized is treated as SOL.
func (c Currency) Decimals() int {
	if c == CurrencyUSDC {
		return 6
	}
	return 9
}

// DustThreshold is the minimum decimal amount considered worth claiming, in
// native units of the amount's currency.
const DustThreshold = 0.001

// Amount is a raw integer token amount tagged with its denomination. All fee
// arithmetic happens on Raw; Decimal conversion is for display and ledger
// rows only.
type Amount struct {
	Raw      uint64   `json:"raw"`
	Currency Currency `json:"currency"`
}

// NewAmount builds a tagged amount.
func NewAmount(raw uint64, currency Currency) Amount {
	return Amount{Raw: raw, Currency: currency}
}

// Decimal converts the raw integer units into native units.
func (a Amount) Decimal() float64 {
	return float64(a.Raw) / math.Pow10(a.Currency.Decimals())
}

// IsDust reports whether the amount is below the claimable threshold.
func (a Amount) IsDust() bool {
	return a.Decimal() < DustThreshold
}

// Add returns the sum of two amounts in the same currency. Mixing currencies
// is a programming error; the mismatched operand is ignored and the receiver
// returned unchanged so a bug degrades to under-reporting, never to summing
// SOL with USDC.
func (a Amount) Add(b Amount) Amount {
	if a.Currency != b.Currency {
		return a
	}
	return Amount{Raw: a.Raw + b.Raw, Currency: a.Currency}
}

// SplitShare divides totalRaw into a numerator/denominator share and the
// remainder using integer floor division. The two parts always sum exactly
// to totalRaw; no floating point is involved. The intermediate product is
// computed at 128 bits so the floor holds for the full uint64 range.
func SplitShare(totalRaw uint64, numerator, denominator uint64) (share, remainder uint64) {
	hi, lo := bits.Mul64(totalRaw, numerator)
	share, _ = bits.Div64(hi, lo, denominator)
	remainder = totalRaw - share
	return share, remainder
}
