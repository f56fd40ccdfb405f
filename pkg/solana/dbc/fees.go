package dbc

import (
	chain "launchpad/pkg/solana"
	"launchpad/pkg/utils"
)

// UnclaimedCreatorFee reports the creator's accrued quote-side trading fee,
// denominated by the pool's quote mint. Base-side fees are paid in the
// launched token itself and are not part of creator rewards.
func (p *VirtualPool) UnclaimedCreatorFee() utils.Amount {
	return utils.NewAmount(p.CreatorQuoteFee, chain.QuoteCurrency(p.QuoteMint))
}
