package calculator

import (
	"errors"
	"fmt"

	"poolreturns/internal/domain"
)

// ErrInvalidOrdering is returned when a window's snapshots are not in
// chronological order.
var ErrInvalidOrdering = errors.New("window snapshots out of chronological order")

/**

core algorithm for attributing an LP's value change within one time
window bounded by two position snapshots.

ownership at the end of the window deliberately reuses the t0 token
balance against the t1 total supply - that isolates value change from
the pool's supply/reserve evolution from value change caused by the
LP's own deposits or withdrawals inside the window.

*/

// Config holds the early-price override table. Before on-chain price
// discovery began the subgraph's token prices are unreliable, so
// snapshots older than the cutoff get hardcoded prices instead.
type Config struct {
	// unix seconds; snapshots at or after this use subgraph prices as-is
	PriceDiscoveryCutoff int64
	// token addresses (lowercase) pinned to $1 before the cutoff
	StablecoinOverrides map[string]bool
	// wrapped native asset address, pinned to LegacyNativePriceUSD
	WrappedNativeToken   string
	LegacyNativePriceUSD float64
}

// DefaultConfig returns the mainnet override table.
func DefaultConfig() Config {
	return Config{
		PriceDiscoveryCutoff: 1589747086,
		StablecoinOverrides: map[string]bool{
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": true, // USDC
			"0x6b175474e89094c44da98b954eedeac495271d0f": true, // DAI
		},
		WrappedNativeToken:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		LegacyNativePriceUSD: 203,
	}
}

// StablecoinOverride reports whether an event on this token before the
// cutoff should be valued at face amount instead of its recorded USD.
func (c Config) StablecoinOverride(tokenID string, timestamp int64) bool {
	return c.StablecoinOverrides[tokenID] && timestamp < c.PriceDiscoveryCutoff
}

// formatPricesForEarlyTimestamps returns a corrected copy of the
// snapshot. the input is never mutated - the same snapshot is reused
// across multiple windows.
func formatPricesForEarlyTimestamps(cfg Config, position domain.PositionSnapshot) domain.PositionSnapshot {
	if position.Timestamp >= cfg.PriceDiscoveryCutoff {
		return position
	}
	if cfg.StablecoinOverrides[position.TokenID] {
		position.TokenPriceUSD = 1
	}
	if position.TokenID == cfg.WrappedNativeToken {
		position.TokenPriceUSD = cfg.LegacyNativePriceUSD
	}
	return position
}

// ComputeWindowMetrics attributes the value change between positionT0
// and positionT1. Pure - no fetches, no mutation of its inputs.
//
// Windows must be given in chronological order; a reversed window
// fails with ErrInvalidOrdering rather than producing sign-flipped
// attribution.
func ComputeWindowMetrics(cfg Config, positionT0, positionT1 domain.PositionSnapshot) (domain.ReturnMetrics, error) {
	if positionT1.Timestamp < positionT0.Timestamp {
		return domain.ReturnMetrics{}, fmt.Errorf("%w: t0=%d t1=%d", ErrInvalidOrdering, positionT0.Timestamp, positionT1.Timestamp)
	}

	positionT0 = formatPricesForEarlyTimestamps(cfg, positionT0)
	positionT1 = formatPricesForEarlyTimestamps(cfg, positionT1)

	// a zero total supply would put NaN/Inf in every metric downstream;
	// classify it instead and let the caller decide what a flagged
	// zero-return window means
	if positionT0.LiquidityTokenTotalSupply == 0 || positionT1.LiquidityTokenTotalSupply == 0 {
		return domain.ReturnMetrics{Degenerate: true}, nil
	}

	t0Ownership := positionT0.LiquidityTokenBalance / positionT0.LiquidityTokenTotalSupply
	t1Ownership := positionT0.LiquidityTokenBalance / positionT1.LiquidityTokenTotalSupply

	// token amounts attributable to the LP at each bound
	tokenAmountT0 := t0Ownership * positionT0.Reserve
	tokenAmountT1 := t1Ownership * positionT1.Reserve

	// NOTE: this ratio divides the closing price by itself, so it is 1
	// whenever the price is nonzero. it was almost certainly meant to be
	// close/open, but the published attribution numbers were produced
	// with this formula, so it stays until the intended semantics are
	// confirmed.
	priceRatioT1 := 0.0
	if positionT1.TokenPriceUSD != 0 {
		priceRatioT1 = positionT1.TokenPriceUSD / positionT1.TokenPriceUSD
	}

	tokenAmountNoFees := 0.0
	if positionT1.TokenPriceUSD != 0 && priceRatioT1 != 0 {
		tokenAmountNoFees = tokenAmountT0 * priceRatioT1
	}
	noFeesUSD := tokenAmountNoFees * positionT1.TokenPriceUSD

	feesTokenAmount := tokenAmountT1 - tokenAmountNoFees
	feesUSD := feesTokenAmount * positionT1.TokenPriceUSD

	// hodl baseline: value the t0 deposit amounts at each bound's price
	assetValueT0 := tokenAmountT0 * positionT0.TokenPriceUSD
	assetValueT1 := tokenAmountT1 * positionT1.TokenPriceUSD

	impLossUSD := noFeesUSD - assetValueT1

	// net value change uses the pool's tracked USD reserve, which covers
	// all pool assets rather than only the reference token
	netValueT0 := t0Ownership * positionT0.ReserveUSD
	netValueT1 := t1Ownership * positionT1.ReserveUSD

	return domain.ReturnMetrics{
		HodlReturn:   assetValueT1 - assetValueT0,
		NetReturn:    netValueT1 - netValueT0,
		DeerfiReturn: feesUSD + impLossUSD,
		ImpLoss:      impLossUSD,
		Fees:         feesUSD,
	}, nil
}
