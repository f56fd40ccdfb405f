package business

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"launchpad/internal/models"
	"launchpad/pkg/utils"
)

const (
	// Creator's share of platform-held LP proceeds for the shared-LP token.
	creatorShareNumerator   = 2
	creatorShareDenominator = 3

	// Divisor used to fold USDC amounts into a rough SOL-equivalent when
	// ranking tokens for display. This is a sort heuristic, not an exchange
	// rate; it only decides list order.
	usdcSortDivisor = 200

	// Cap on simultaneous per-token chain fetches in the aggregate path.
	maxFeeFetches = 8
)

// Aggregator produces per-wallet reward breakdowns by fanning the FeeFetcher
// out across every token the wallet created.
type Aggregator struct {
	DB   *gorm.DB
	Fees *FeeFetcher

	// Mint of the one token whose LP position is platform-held and whose
	// rewards are paid in USDC via the split-payment flow.
	SharedLPTokenMint string
	// Wallet holding the platform-side LP positions for that token.
	SharedLPWallet solana.PublicKey
}

// TokenFeeState is the fully resolved claimable state for one token, with
// shared-LP rules already applied. Raw pool and position snapshots ride
// along so claim preparation can hand them to the client.
type TokenFeeState struct {
	Token    *models.Token
	SharedLP bool

	Dbc  *DbcFees
	Damm *DammFees

	// Claimable amounts after shared-LP adjustment.
	DbcAmount       utils.Amount
	DammAmount      utils.Amount
	MigrationAmount utils.Amount
}

// Currency returns the denomination the claim would settle in. A token
// without a bonding-curve pool has a zero-valued DbcAmount, so the AMM side
// decides; only when neither side carries a tag does SOL apply.
func (s *TokenFeeState) Currency() utils.Currency {
	if s.SharedLP {
		return utils.CurrencyUSDC
	}
	if s.DbcAmount.Currency != "" {
		return s.DbcAmount.Currency
	}
	if s.DammAmount.Currency != "" {
		return s.DammAmount.Currency
	}
	return utils.CurrencySOL
}

// Claimable reports whether any component clears the dust threshold.
func (s *TokenFeeState) Claimable() bool {
	return !s.DbcAmount.IsDust() || !s.DammAmount.IsDust() || !s.MigrationAmount.IsDust()
}

// TokenRewards is one row of the per-wallet breakdown.
type TokenRewards struct {
	Mint              string  `json:"mint"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	LogoURI           string  `json:"logo_uri,omitempty"`
	PoolAddress       string  `json:"pool_address,omitempty"`
	DammV2PoolAddress string  `json:"damm_v2_pool_address,omitempty"`
	DbcSol            float64 `json:"dbc_sol"`
	DbcUsdc           float64 `json:"dbc_usdc"`
	DammSol           float64 `json:"damm_sol"`
	DammUsdc          float64 `json:"damm_usdc"`
	MigrationSol      float64 `json:"migration_sol"`
	ClaimableSol      float64 `json:"claimable_sol"`
	ClaimableUsdc     float64 `json:"claimable_usdc"`
	SharedLP          bool    `json:"shared_lp"`
}

// WalletRewards is the aggregate response for one creator wallet.
type WalletRewards struct {
	Wallet             string         `json:"wallet"`
	Tokens             []TokenRewards `json:"tokens"`
	TotalSol           float64        `json:"total_sol"`
	TotalUsdc          float64        `json:"total_usdc"`
	LifetimeClaimedSol float64        `json:"lifetime_claimed_sol"`
}

// FetchTokenFees resolves one token's claimable state from chain. Errors
// propagate; this is the strict path that claim preparation and settlement
// re-verification rely on. Display callers go through WalletRewards, which
// degrades failures to zero instead.
func (a *Aggregator) FetchTokenFees(ctx context.Context, token *models.Token) (*TokenFeeState, error) {
	state := &TokenFeeState{
		Token:    token,
		SharedLP: token.Mint == a.SharedLPTokenMint && a.SharedLPTokenMint != "",
	}

	if token.PoolAddress != "" {
		dbcFees, err := a.Fees.DbcCreatorFee(ctx, token.PoolAddress)
		if err != nil {
			return nil, fmt.Errorf("dbc fees for %s: %w", token.Mint, err)
		}
		state.Dbc = dbcFees
		state.DbcAmount = dbcFees.CreatorFee
	}

	if token.DammV2PoolAddress != "" {
		owner, err := a.positionOwner(token, state.SharedLP)
		if err != nil {
			return nil, err
		}
		dammFees, err := a.Fees.DammLPFees(ctx, token.DammV2PoolAddress, owner)
		if err != nil {
			return nil, fmt.Errorf("damm fees for %s: %w", token.Mint, err)
		}
		state.Damm = dammFees
		if dammFees.Sol.Raw > 0 {
			state.DammAmount = dammFees.Sol
		} else {
			state.DammAmount = dammFees.Usdc
		}
	}

	state.MigrationAmount = utils.NewAmount(0, utils.CurrencySOL)

	if state.SharedLP {
		a.applySharedLPRules(state)
	}
	return state, nil
}

// applySharedLPRules enforces the split-revenue arrangement: the token pays
// creator rewards in USDC only, and the creator's claimable LP fee is the
// floor 2/3 share of what the platform-held positions accrued.
func (a *Aggregator) applySharedLPRules(state *TokenFeeState) {
	if state.DbcAmount.Currency == utils.CurrencySOL {
		state.DbcAmount = utils.NewAmount(0, utils.CurrencySOL)
	}
	state.MigrationAmount = utils.NewAmount(0, utils.CurrencySOL)

	var usdcRaw uint64
	if state.Damm != nil {
		usdcRaw = state.Damm.Usdc.Raw
	}
	share, _ := utils.SplitShare(usdcRaw, creatorShareNumerator, creatorShareDenominator)
	state.DammAmount = utils.NewAmount(share, utils.CurrencyUSDC)
}

func (a *Aggregator) positionOwner(token *models.Token, sharedLP bool) (solana.PublicKey, error) {
	if sharedLP {
		if a.SharedLPWallet.IsZero() {
			return solana.PublicKey{}, fmt.Errorf("shared LP wallet not configured for token %s", token.Mint)
		}
		return a.SharedLPWallet, nil
	}
	owner, err := solana.PublicKeyFromBase58(token.Creator)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid creator wallet %q: %w", token.Creator, err)
	}
	return owner, nil
}

// WalletRewards fans fee reads out over every token the wallet created and
// merges them into one response. A failing token degrades to a zero entry
// so a single flaky pool cannot break the page.
func (a *Aggregator) WalletRewards(ctx context.Context, wallet string) (*WalletRewards, error) {
	var tokens []models.Token
	if err := a.DB.WithContext(ctx).Where("creator = ?", wallet).Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens for %s: %w", wallet, err)
	}

	entries := make([]TokenRewards, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFeeFetches)
	for i := range tokens {
		i := i
		g.Go(func() error {
			token := tokens[i]
			state, err := a.FetchTokenFees(gctx, &token)
			if err != nil {
				logrus.WithError(err).WithField("mint", token.Mint).
					Warn("fee fetch failed, reporting zero for token")
				entries[i] = zeroEntry(&token, token.Mint == a.SharedLPTokenMint)
				return nil
			}
			entries[i] = rewardsEntry(state)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return sortValue(entries[i]) > sortValue(entries[j])
	})

	result := &WalletRewards{Wallet: wallet, Tokens: entries}
	for _, e := range entries {
		result.TotalSol += e.ClaimableSol
		result.TotalUsdc += e.ClaimableUsdc
	}

	lifetime, err := a.lifetimeClaimed(ctx, wallet)
	if err != nil {
		return nil, err
	}
	result.LifetimeClaimedSol = lifetime
	return result, nil
}

func (a *Aggregator) lifetimeClaimed(ctx context.Context, wallet string) (float64, error) {
	var last models.ClaimedRewardsHistory
	err := a.DB.WithContext(ctx).
		Where("creator_wallet = ?", wallet).
		Order("id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read claim history for %s: %w", wallet, err)
	}
	return last.CumulativeEarnedSol, nil
}

func rewardsEntry(state *TokenFeeState) TokenRewards {
	entry := zeroEntry(state.Token, state.SharedLP)
	addByCurrency(&entry.DbcSol, &entry.DbcUsdc, state.DbcAmount)
	addByCurrency(&entry.DammSol, &entry.DammUsdc, state.DammAmount)
	entry.MigrationSol = state.MigrationAmount.Decimal()
	entry.ClaimableSol = entry.DbcSol + entry.DammSol + entry.MigrationSol
	entry.ClaimableUsdc = entry.DbcUsdc + entry.DammUsdc
	return entry
}

func zeroEntry(token *models.Token, sharedLP bool) TokenRewards {
	return TokenRewards{
		Mint:              token.Mint,
		Symbol:            token.Symbol,
		Name:              token.Name,
		LogoURI:           token.LogoURI,
		PoolAddress:       token.PoolAddress,
		DammV2PoolAddress: token.DammV2PoolAddress,
		SharedLP:          sharedLP,
	}
}

func addByCurrency(sol, usdc *float64, amount utils.Amount) {
	if amount.Currency == utils.CurrencyUSDC {
		*usdc += amount.Decimal()
		return
	}
	*sol += amount.Decimal()
}

func sortValue(e TokenRewards) float64 {
	return e.ClaimableSol + e.ClaimableUsdc/usdcSortDivisor
}

// RefreshFeeCache rewrites the denormalized creator_fees mirror row for one
// token from freshly fetched chain state. The claim path never reads this
// table; it re-fetches from chain.
func (a *Aggregator) RefreshFeeCache(ctx context.Context, token *models.Token) error {
	state, err := a.FetchTokenFees(ctx, token)
	if err != nil {
		return err
	}

	row := models.CreatorFee{
		TokenAddress:   token.Mint,
		CreatorWallet:  token.Creator,
		Currency:       string(state.Currency()),
		DbcFees:        state.DbcAmount.Decimal(),
		DbcFeesRaw:     state.DbcAmount.Raw,
		DammFees:       state.DammAmount.Decimal(),
		DammFeesRaw:    state.DammAmount.Raw,
		MigrationFee:   state.MigrationAmount.Decimal(),
		DbcClaimable:   !state.DbcAmount.IsDust(),
		DammClaimable:  !state.DammAmount.IsDust(),
		TotalClaimable: state.DbcAmount.Decimal() + state.DammAmount.Decimal() + state.MigrationAmount.Decimal(),
	}

	return a.DB.WithContext(ctx).
		Where("token_address = ?", token.Mint).
		Assign(row).
		FirstOrCreate(&models.CreatorFee{}).Error
}
