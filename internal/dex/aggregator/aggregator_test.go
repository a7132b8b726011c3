package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoranarchy/algoranarchy/internal/dex"
	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// stubSource is a scriptable quote source for tests.
type stubSource struct {
	name     domain.Exchange
	quote    domain.Quote
	quoteErr error
	pools    []domain.PoolSnapshot
	poolsErr error
	delay    time.Duration
}

func (s *stubSource) Name() domain.Exchange { return s.name }

func (s *stubSource) FetchQuote(ctx context.Context, in, out, amount uint64) (domain.Quote, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return domain.Quote{}, ctx.Err()
		}
	}
	if s.quoteErr != nil {
		return domain.Quote{}, s.quoteErr
	}
	q := s.quote
	q.Exchange = s.name
	q.InputAsset = in
	q.OutputAsset = out
	q.InputAmount = amount
	return q, nil
}

func (s *stubSource) FetchPools(ctx context.Context) ([]domain.PoolSnapshot, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.poolsErr != nil {
		return nil, s.poolsErr
	}
	return s.pools, nil
}

var errDown = errors.New("connection refused")

func newAggregator(sources ...dex.QuoteSource) *Aggregator {
	return New(Config{Sources: sources})
}

func TestBestQuotePicksHighestOutput(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, quote: domain.Quote{OutputAmount: 900}},
		&stubSource{name: domain.ExchangePact, quote: domain.Quote{OutputAmount: 1100}},
		&stubSource{name: domain.ExchangeVestige, quoteErr: errDown},
	)

	q, err := a.BestQuote(context.Background(), 0, 31566704, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, domain.ExchangePact, q.Exchange)
	assert.Equal(t, uint64(1100), q.OutputAmount)
	assert.False(t, q.Estimated)
}

func TestBestQuoteSingleSuccessPassedThrough(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, quoteErr: errDown},
		&stubSource{name: domain.ExchangePact, quote: domain.Quote{OutputAmount: 1000, PriceImpact: 0.42, Fee: 3000}},
		&stubSource{name: domain.ExchangeVestige, quoteErr: errDown},
	)

	q, err := a.BestQuote(context.Background(), 0, 312769, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, domain.ExchangePact, q.Exchange)
	assert.Equal(t, uint64(1000), q.OutputAmount)
	assert.Equal(t, 0.42, q.PriceImpact)
	assert.Equal(t, uint64(3000), q.Fee)
}

func TestBestQuoteAllFailReturnsEstimate(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, quoteErr: errDown},
		&stubSource{name: domain.ExchangePact, quoteErr: errDown},
		&stubSource{name: domain.ExchangeVestige, quoteErr: errDown},
	)

	q, err := a.BestQuote(context.Background(), 0, 31566704, 1_000_000)
	require.NoError(t, err)
	assert.True(t, q.Estimated)
	assert.Equal(t, domain.ExchangeEstimate, q.Exchange)
	assert.GreaterOrEqual(t, q.OutputAmount, uint64(0))
}

func TestBestQuoteTieBreaksBySourceOrder(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, quote: domain.Quote{OutputAmount: 500}},
		&stubSource{name: domain.ExchangePact, quote: domain.Quote{OutputAmount: 500}},
	)

	q, err := a.BestQuote(context.Background(), 0, 312769, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.ExchangeTinyman, q.Exchange)
}

func TestBestQuoteRejectsSameAsset(t *testing.T) {
	a := newAggregator(&stubSource{name: domain.ExchangeTinyman})

	_, err := a.BestQuote(context.Background(), 7, 7, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBestQuoteRejectsZeroAmount(t *testing.T) {
	a := newAggregator(&stubSource{name: domain.ExchangeTinyman})

	_, err := a.BestQuote(context.Background(), 0, 312769, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// The fan-out must run sources concurrently: with one slow source and two
// fast failures, total latency tracks the slowest source, not the sum.
func TestBestQuoteFansOutConcurrently(t *testing.T) {
	const slow = 150 * time.Millisecond

	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, delay: slow, quote: domain.Quote{OutputAmount: 800}},
		&stubSource{name: domain.ExchangePact, delay: slow, quoteErr: errDown},
		&stubSource{name: domain.ExchangeVestige, delay: slow, quoteErr: errDown},
	)

	start := time.Now()
	q, err := a.BestQuote(context.Background(), 0, 31566704, 1_000_000)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, uint64(800), q.OutputAmount)
	assert.Less(t, elapsed, 2*slow, "sources should be probed concurrently, not sequentially")
}

func TestPoolAnalyticsAggregatesAcrossSources(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, pools: []domain.PoolSnapshot{
			{Exchange: domain.ExchangeTinyman, Asset1: 0, Asset2: 31566704, TotalLiquidity: 400, APY: 12.0, Volume24h: 100},
			{Exchange: domain.ExchangeTinyman, Asset1: 0, Asset2: 312769, TotalLiquidity: 999, APY: 3.0, Volume24h: 999},
		}},
		&stubSource{name: domain.ExchangePact, pools: []domain.PoolSnapshot{
			// Reversed asset order still matches the queried pair.
			{Exchange: domain.ExchangePact, Asset1: 31566704, Asset2: 0, TotalLiquidity: 600, APY: 8.0, Volume24h: 300},
		}},
		&stubSource{name: domain.ExchangeVestige, poolsErr: errDown},
	)

	s, err := a.PoolAnalytics(context.Background(), 0, 31566704)
	require.NoError(t, err)
	assert.Equal(t, 2, s.PoolCount)
	assert.Equal(t, uint64(1000), s.TotalLiquidity)
	assert.Equal(t, uint64(400), s.Volume24h)
	assert.InDelta(t, 10.0, s.AverageAPY, 1e-9)
	assert.False(t, s.Estimated)
}

func TestPoolAnalyticsOrderIndependent(t *testing.T) {
	sources := []dex.QuoteSource{
		&stubSource{name: domain.ExchangeTinyman, pools: []domain.PoolSnapshot{
			{Exchange: domain.ExchangeTinyman, Asset1: 0, Asset2: 31566704, TotalLiquidity: 123, APY: 7.5, Volume24h: 55},
		}},
	}
	a := newAggregator(sources...)

	fwd, err := a.PoolAnalytics(context.Background(), 0, 31566704)
	require.NoError(t, err)
	rev, err := a.PoolAnalytics(context.Background(), 31566704, 0)
	require.NoError(t, err)

	assert.Equal(t, fwd.PoolCount, rev.PoolCount)
	assert.Equal(t, fwd.TotalLiquidity, rev.TotalLiquidity)
	assert.Equal(t, fwd.AverageAPY, rev.AverageAPY)
	assert.Equal(t, fwd.Volume24h, rev.Volume24h)
}

func TestPoolAnalyticsNoMatchFallsBack(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, poolsErr: errDown},
		&stubSource{name: domain.ExchangePact, poolsErr: errDown},
	)

	s, err := a.PoolAnalytics(context.Background(), 0, 31566704)
	require.NoError(t, err)
	assert.True(t, s.Estimated)
	assert.NotZero(t, s.PoolCount)
	assert.NotZero(t, s.TotalLiquidity)
}

func TestPoolAnalyticsSkipsZeroAPYPoolsInMean(t *testing.T) {
	a := newAggregator(
		&stubSource{name: domain.ExchangeTinyman, pools: []domain.PoolSnapshot{
			{Exchange: domain.ExchangeTinyman, Asset1: 1, Asset2: 2, TotalLiquidity: 10, APY: 6.0},
			{Exchange: domain.ExchangeTinyman, Asset1: 1, Asset2: 2, TotalLiquidity: 10},
		}},
	)

	s, err := a.PoolAnalytics(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.PoolCount)
	assert.InDelta(t, 6.0, s.AverageAPY, 1e-9)
}

func TestPoolAnalyticsRejectsSameAsset(t *testing.T) {
	a := newAggregator(&stubSource{name: domain.ExchangeTinyman})

	_, err := a.PoolAnalytics(context.Background(), 5, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
