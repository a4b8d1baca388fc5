package domain

// Token is the pool's reference asset as tracked by the subgraph.
type Token struct {
	ID         string
	DerivedETH float64
}

// Pool is the live state of a liquidity pool. Read-only here; the
// subgraph owns it.
type Pool struct {
	ID                 string
	Reserve            float64
	ReserveUSD         float64
	TotalSupply        float64
	Token              Token
	CreatedAtTimestamp int64
}

// Created reports whether the pool has been indexed yet. A pool with
// no creation timestamp has no usable history.
func (p Pool) Created() bool {
	return p.CreatedAtTimestamp > 0
}

// PositionSnapshot is a user's LP position at a point in time, plus
// the pool totals needed to value it. Value fields mirror the
// subgraph's liquidityPositionSnapshot entity.
type PositionSnapshot struct {
	PoolID                    string
	TokenID                   string
	Timestamp                 int64
	LiquidityTokenBalance     float64
	LiquidityTokenTotalSupply float64
	// reserve of the reference token, in token units
	Reserve       float64
	ReserveUSD    float64
	TokenPriceUSD float64
}

// ShareValue is a point-in-time pool state resolved to a historical
// block by the subgraph, used to close out a day bucket.
type ShareValue struct {
	Reserve        float64
	ReserveUSD     float64
	TotalSupply    float64
	DerivedETH     float64
	NativePriceUSD float64
}
