package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

func TestEstimateIsDeterministic(t *testing.T) {
	f := NewFallback()

	a := f.Estimate(0, 31566704, 1_000_000)
	b := f.Estimate(0, 31566704, 1_000_000)
	assert.Equal(t, a, b)
}

func TestEstimateIsTagged(t *testing.T) {
	f := NewFallback()

	q := f.Estimate(0, 31566704, 1_000_000)
	assert.True(t, q.Estimated)
	assert.Equal(t, domain.ExchangeEstimate, q.Exchange)
	assert.Equal(t, uint64(0), q.InputAsset)
	assert.Equal(t, uint64(31566704), q.OutputAsset)
	assert.Equal(t, uint64(1_000_000), q.InputAmount)
}

func TestEstimateUsesReferencePool(t *testing.T) {
	f := NewFallback()

	// ALGO -> USDC reference pool: 1e12 / 1.8e11 reserves. For a small
	// input the output tracks the 0.18 spot rate minus the 0.3% fee.
	q := f.Estimate(0, 31566704, 1_000_000)
	assert.Greater(t, q.OutputAmount, uint64(170_000))
	assert.Less(t, q.OutputAmount, uint64(180_000))
	assert.Greater(t, q.PriceImpact, 0.0)
	assert.Equal(t, uint64(3_000), q.Fee)
}

func TestEstimateReversedPairInvertsRate(t *testing.T) {
	f := NewFallback()

	// USDC -> ALGO must consume the reference pool in the other direction.
	q := f.Estimate(31566704, 0, 1_000_000)
	assert.Greater(t, q.OutputAmount, uint64(5_000_000))
	assert.Less(t, q.OutputAmount, uint64(6_000_000))
}

func TestEstimateUnknownPairUsesFlatRate(t *testing.T) {
	f := NewFallback()

	q := f.Estimate(0, 999999999, 1_000_000)
	// 1e6 * 0.18 * 0.997 = 179460
	assert.Equal(t, uint64(179_460), q.OutputAmount)
	assert.True(t, q.Estimated)

	rev := f.Estimate(999999999, 0, 1_000_000)
	// 1e6 * 5.5 * 0.997 = 5483500
	assert.Equal(t, uint64(5_483_500), rev.OutputAmount)
}

func TestSummaryKnownPair(t *testing.T) {
	f := NewFallback()

	s := f.Summary(0, 31566704)
	assert.True(t, s.Estimated)
	assert.Equal(t, 1, s.PoolCount)
	assert.Equal(t, uint64(424_264_068_712), s.TotalLiquidity)
	assert.InDelta(t, 12.5, s.AverageAPY, 1e-9)
}

func TestSummaryUnknownPairStillPopulated(t *testing.T) {
	f := NewFallback()

	s := f.Summary(123, 456)
	assert.True(t, s.Estimated)
	assert.NotZero(t, s.PoolCount)
	assert.NotZero(t, s.TotalLiquidity)
	assert.NotZero(t, s.AverageAPY)
}
