package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// feeRate is the flat 0.3% swap fee assumed for synthetic quotes.
var feeRate = decimal.NewFromFloat(0.003)

// refPool is an illustrative reference pool used when no live source
// responds. The numbers are placeholders so the UI never renders "no data";
// they are not market data and every consumer sees them tagged as estimates.
type refPool struct {
	asset1, asset2     uint64
	reserves1          uint64
	reserves2          uint64
	liquidity          uint64
	apy                float64
	volume24h          uint64
}

var referencePools = []refPool{
	{asset1: 0, asset2: 31566704, reserves1: 1_000_000_000_000, reserves2: 180_000_000_000, liquidity: 424_264_068_712, apy: 12.5, volume24h: 2_500_000_000_000},
	{asset1: 0, asset2: 312769, reserves1: 500_000_000_000, reserves2: 90_000_000_000, liquidity: 212_132_034_356, apy: 8.3, volume24h: 1_200_000_000_000},
	{asset1: 31566704, asset2: 312769, reserves1: 1_000_000_000_000, reserves2: 1_000_000_000_000, liquidity: 1_000_000_000_000, apy: 5.2, volume24h: 900_000_000_000},
	{asset1: 0, asset2: 386192725, reserves1: 2_000_000_000_000, reserves2: 200_000_000_000, liquidity: 632_455_532_034, apy: 15.3, volume24h: 400_000_000_000},
}

// flat rates used when not even a reference pool covers the pair. Taken as
// an ALGO-to-stablecoin rate and its rough inverse.
var (
	flatRateFromAlgo = decimal.NewFromFloat(0.18)
	flatRateToAlgo   = decimal.NewFromFloat(5.5)
)

// Fallback produces deterministic synthetic quotes and summaries. It always
// succeeds and always terminates; there is no failure variant.
type Fallback struct{}

// NewFallback creates the fallback calculator.
func NewFallback() *Fallback { return &Fallback{} }

// Estimate computes a synthetic quote for the pair. When a reference pool
// covers the pair the estimate follows the constant-product formula with the
// flat fee; otherwise a fixed illustrative rate is applied.
func (f *Fallback) Estimate(inputAsset, outputAsset, inputAmount uint64) domain.Quote {
	q := domain.Quote{
		Exchange:    domain.ExchangeEstimate,
		InputAsset:  inputAsset,
		OutputAsset: outputAsset,
		InputAmount: inputAmount,
		Estimated:   true,
	}

	amt := decimal.NewFromUint64(inputAmount)
	q.Fee = toBaseUnits(amt.Mul(feeRate))

	if pool, ok := findReferencePool(inputAsset, outputAsset); ok {
		inRes := decimal.NewFromUint64(pool.reserves1)
		outRes := decimal.NewFromUint64(pool.reserves2)
		if pool.asset1 == outputAsset {
			inRes, outRes = outRes, inRes
		}

		// Constant-product: out = outRes * amtAfterFee / (inRes + amtAfterFee).
		amtAfterFee := amt.Mul(decimal.NewFromInt(1).Sub(feeRate))
		q.OutputAmount = toBaseUnits(outRes.Mul(amtAfterFee).Div(inRes.Add(amtAfterFee)))
		q.PriceImpact, _ = amt.Div(inRes).Mul(decimal.NewFromInt(100)).Float64()
		return q
	}

	rate := flatRateToAlgo
	if inputAsset == 0 {
		rate = flatRateFromAlgo
	}
	q.OutputAmount = toBaseUnits(amt.Mul(rate).Mul(decimal.NewFromInt(1).Sub(feeRate)))
	q.PriceImpact, _ = amt.Div(decimal.NewFromInt(1_000_000_000)).Mul(decimal.NewFromInt(100)).Float64()
	return q
}

// Summary returns a fixed illustrative analytics summary for the pair,
// tagged as an estimate.
func (f *Fallback) Summary(asset1, asset2 uint64) domain.PoolAnalyticsSummary {
	s := domain.PoolAnalyticsSummary{
		PoolCount: 1,
		Estimated: true,
	}

	if pool, ok := findReferencePool(asset1, asset2); ok {
		s.TotalLiquidity = pool.liquidity
		s.AverageAPY = pool.apy
		s.Volume24h = pool.volume24h
		s.Pools = []domain.PoolSnapshot{{
			Exchange:       domain.ExchangeEstimate,
			Asset1:         pool.asset1,
			Asset2:         pool.asset2,
			Asset1Reserves: pool.reserves1,
			Asset2Reserves: pool.reserves2,
			TotalLiquidity: pool.liquidity,
			APY:            pool.apy,
			Volume24h:      pool.volume24h,
		}}
		return s
	}

	s.TotalLiquidity = 250_000_000_000
	s.AverageAPY = 9.5
	s.Volume24h = 750_000_000_000
	return s
}

// findReferencePool matches the unordered pair against the reference table.
func findReferencePool(a, b uint64) (refPool, bool) {
	for _, p := range referencePools {
		if (p.asset1 == a && p.asset2 == b) || (p.asset1 == b && p.asset2 == a) {
			return p, true
		}
	}
	return refPool{}, false
}

// toBaseUnits floors a decimal amount into non-negative integer base units.
func toBaseUnits(d decimal.Decimal) uint64 {
	n := d.Floor().IntPart()
	if n < 0 {
		return 0
	}
	return uint64(n)
}
