package domain

// PoolSnapshot is one exchange's view of a liquidity pool at fetch time.
// Snapshots from different exchanges are aggregated, never reconciled.
type PoolSnapshot struct {
	Exchange       Exchange `json:"exchange"`
	Asset1         uint64   `json:"asset1_id"`
	Asset2         uint64   `json:"asset2_id"`
	Asset1Reserves uint64   `json:"asset1_reserves"`
	Asset2Reserves uint64   `json:"asset2_reserves"`
	TotalLiquidity uint64   `json:"total_liquidity"`
	APY            float64  `json:"apy,omitempty"`
	Volume24h      uint64   `json:"volume_24h,omitempty"`
}

// MatchesPair reports whether the snapshot covers the (a, b) trading pair.
// Pairs are unordered: a pool for (b, a) matches a query for (a, b).
func (p PoolSnapshot) MatchesPair(a, b uint64) bool {
	return (p.Asset1 == a && p.Asset2 == b) || (p.Asset1 == b && p.Asset2 == a)
}

// PoolAnalyticsSummary aggregates pool snapshots for one asset pair across
// all exchanges. Liquidity and volume are summed; APY is the mean across
// pools that report one.
type PoolAnalyticsSummary struct {
	PoolCount      int            `json:"pool_count"`
	TotalLiquidity uint64         `json:"total_liquidity"`
	AverageAPY     float64        `json:"average_apy"`
	Volume24h      uint64         `json:"volume_24h"`
	Pools          []PoolSnapshot `json:"pools,omitempty"`

	// Estimated is true when no live pool data matched and the summary
	// was synthesized from illustrative reference data.
	Estimated bool `json:"estimated"`
}
