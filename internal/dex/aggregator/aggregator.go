// Package aggregator races every configured DEX quote source and selects
// the best result. Sources that fail are dropped from the candidate set;
// when all of them fail, a deterministic synthetic estimate keeps the
// caller supplied with data. Nothing here keeps state between calls.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/algoranarchy/algoranarchy/internal/dex"
	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// Config wires an Aggregator.
type Config struct {
	// Sources in priority order; earlier sources win quote ties.
	Sources  []dex.QuoteSource
	Fallback *Fallback

	// QuoteCache and PoolCache are optional read-through caches. Nil
	// disables caching entirely.
	QuoteCache domain.QuoteCache
	PoolCache  domain.PoolCache
	QuoteTTL   time.Duration
	PoolTTL    time.Duration

	Logger *slog.Logger
}

// Aggregator implements best-quote selection and pool analytics over a set
// of independent quote sources.
type Aggregator struct {
	sources    []dex.QuoteSource
	fallback   *Fallback
	quoteCache domain.QuoteCache
	poolCache  domain.PoolCache
	quoteTTL   time.Duration
	poolTTL    time.Duration
	logger     *slog.Logger
}

// New creates an Aggregator from the given config.
func New(cfg Config) *Aggregator {
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = NewFallback()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		sources:    cfg.Sources,
		fallback:   fallback,
		quoteCache: cfg.QuoteCache,
		poolCache:  cfg.PoolCache,
		quoteTTL:   cfg.QuoteTTL,
		poolTTL:    cfg.PoolTTL,
		logger:     logger.With(slog.String("component", "dex_aggregator")),
	}
}

type quoteResult struct {
	quote domain.Quote
	err   error
}

// BestQuote fans out to every source concurrently, waits for all of them to
// settle, and returns the quote with the largest output amount. Ties go to
// the earlier source in configuration order. If no source succeeds, the
// fallback estimate is returned; the caller always receives a usable quote.
//
// The only error conditions are caller-side contract violations: identical
// input and output assets, or a zero input amount.
func (a *Aggregator) BestQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error) {
	if inputAsset == outputAsset {
		return domain.Quote{}, fmt.Errorf("%w: input and output asset must differ", domain.ErrInvalidRequest)
	}
	if inputAmount == 0 {
		return domain.Quote{}, fmt.Errorf("%w: input amount must be positive", domain.ErrInvalidRequest)
	}

	if a.quoteCache != nil {
		if q, err := a.quoteCache.GetQuote(ctx, inputAsset, outputAsset, inputAmount); err == nil {
			return q, nil
		}
	}

	// Fan out. A plain errgroup (no shared cancellation) keeps a failing
	// source from aborting its siblings; each source already bounds its
	// own wait, so the whole round is bounded by the slowest source, not
	// the sum of all of them.
	results := make([]quoteResult, len(a.sources))
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			q, err := src.FetchQuote(ctx, inputAsset, outputAsset, inputAmount)
			results[i] = quoteResult{quote: q, err: err}
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]domain.Quote, 0, len(results))
	for i, res := range results {
		if res.err != nil {
			a.logger.Debug("quote source failed",
				slog.String("exchange", string(a.sources[i].Name())),
				slog.String("error", res.err.Error()),
			)
			continue
		}
		quotes = append(quotes, res.quote)
	}

	if len(quotes) == 0 {
		a.logger.Warn("no quotes available from any source, using estimate",
			slog.Uint64("input_asset", inputAsset),
			slog.Uint64("output_asset", outputAsset),
		)
		return a.fallback.Estimate(inputAsset, outputAsset, inputAmount), nil
	}

	// Strict greater-than keeps the first source on ties, which makes the
	// selection deterministic regardless of arrival order.
	best := lo.MaxBy(quotes, func(item, max domain.Quote) bool {
		return item.OutputAmount > max.OutputAmount
	})

	if a.quoteCache != nil {
		if err := a.quoteCache.SetQuote(ctx, best, a.quoteTTL); err != nil {
			a.logger.Debug("quote cache write failed", slog.String("error", err.Error()))
		}
	}

	return best, nil
}

// PoolAnalytics fans out to every source's pool listing, keeps the
// snapshots covering the (asset1, asset2) pair in either order, and
// aggregates them. When nothing matches, a fixed illustrative summary is
// returned so callers never have to handle an empty result.
func (a *Aggregator) PoolAnalytics(ctx context.Context, asset1, asset2 uint64) (domain.PoolAnalyticsSummary, error) {
	if asset1 == asset2 {
		return domain.PoolAnalyticsSummary{}, fmt.Errorf("%w: assets must differ", domain.ErrInvalidRequest)
	}

	matched, err := a.pairPools(ctx, asset1, asset2)
	if err != nil {
		return domain.PoolAnalyticsSummary{}, err
	}

	if len(matched) == 0 {
		return a.fallback.Summary(asset1, asset2), nil
	}

	summary := domain.PoolAnalyticsSummary{
		PoolCount:      len(matched),
		TotalLiquidity: lo.SumBy(matched, func(p domain.PoolSnapshot) uint64 { return p.TotalLiquidity }),
		Volume24h:      lo.SumBy(matched, func(p domain.PoolSnapshot) uint64 { return p.Volume24h }),
		Pools:          matched,
	}

	withAPY := lo.Filter(matched, func(p domain.PoolSnapshot, _ int) bool { return p.APY > 0 })
	if len(withAPY) > 0 {
		summary.AverageAPY = lo.SumBy(withAPY, func(p domain.PoolSnapshot) float64 { return p.APY }) / float64(len(withAPY))
	}

	return summary, nil
}

// pairPools collects matching snapshots across all sources, consulting the
// pool cache first when one is configured.
func (a *Aggregator) pairPools(ctx context.Context, asset1, asset2 uint64) ([]domain.PoolSnapshot, error) {
	if a.poolCache != nil {
		if pools, err := a.poolCache.GetPair(ctx, asset1, asset2); err == nil {
			return pools, nil
		}
	}

	results := make([][]domain.PoolSnapshot, len(a.sources))
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			pools, err := src.FetchPools(ctx)
			if err != nil {
				a.logger.Debug("pool source failed",
					slog.String("exchange", string(src.Name())),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = pools
			return nil
		})
	}
	_ = g.Wait()

	var matched []domain.PoolSnapshot
	for _, pools := range results {
		for _, p := range pools {
			if p.MatchesPair(asset1, asset2) {
				matched = append(matched, p)
			}
		}
	}

	if a.poolCache != nil && len(matched) > 0 {
		if err := a.poolCache.SetPair(ctx, asset1, asset2, matched, a.poolTTL); err != nil {
			a.logger.Debug("pool cache write failed", slog.String("error", err.Error()))
		}
	}

	return matched, nil
}
