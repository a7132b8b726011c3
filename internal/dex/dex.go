// Package dex defines the contract that every exchange quote source
// implements. Each source makes exactly one outbound request per call, owns
// its own timeout, and reports any transport, status, or decoding problem
// as an error so the aggregator can proceed with partial results. Sources
// never retry; the aggregator's fan-out across independent exchanges is the
// redundancy mechanism.
package dex

import (
	"context"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// QuoteSource is a single exchange's quote and pool API, normalized to the
// common domain shapes.
type QuoteSource interface {
	// Name identifies the exchange the source talks to.
	Name() domain.Exchange

	// FetchQuote requests a swap quote for inputAmount base units of the
	// input asset. A returned error means the source is excluded from the
	// current aggregation round, nothing more.
	FetchQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error)

	// FetchPools returns the exchange's current pool snapshots.
	FetchPools(ctx context.Context) ([]domain.PoolSnapshot, error)
}
