package domain

import "github.com/shopspring/decimal"

// ReturnMetrics attributes the USD value change across one window
// bounded by two position snapshots.
type ReturnMetrics struct {
	// value change if the t0 token amounts had been held outside the pool
	HodlReturn float64
	// change in the position's share of the pool's tracked USD reserve
	NetReturn float64
	// fees + impermanent loss; the part of the return earned by LPing
	DeerfiReturn float64
	ImpLoss      float64
	Fees         float64
	// set when the window divides by a zero total supply; all metrics
	// are zeroed instead of carrying NaN/Inf into callers
	Degenerate bool
}

// DailyHistoryEntry is one day bucket of a position's history.
type DailyHistoryEntry struct {
	// unix seconds at the start of the day bucket
	Date     int64   `csv:"date"`
	USDValue float64 `csv:"usd_value"`
	// cumulative fees earned up to and including this day
	Fees float64 `csv:"fees"`
}

// Principal is the net deposited value for a (user, pool) pair,
// folded from mint and burn events.
type Principal struct {
	USD    decimal.Decimal
	Amount decimal.Decimal
}

// MintOrBurn is a single deposit or withdrawal event. Amounts are
// kept exact; the subgraph serves them as numeric strings.
type MintOrBurn struct {
	Amount    decimal.Decimal
	AmountUSD decimal.Decimal
	Timestamp int64
	TokenID   string
}

// MintsAndBurns is the full event history for one (user, pool) pair.
type MintsAndBurns struct {
	Mints []MintOrBurn
	Burns []MintOrBurn
}

// PoolReturnsSummary is the orchestrated per-pool attribution result.
type PoolReturnsSummary struct {
	Principal Principal
	Net       struct {
		Return float64
	}
	Deerfi struct {
		Return float64
	}
	Fees struct {
		Sum float64
	}
}
