package domain

// Exchange identifies a DEX quote source.
type Exchange string

const (
	ExchangeTinyman Exchange = "tinyman"
	ExchangePact    Exchange = "pact"
	ExchangeVestige Exchange = "vestige"

	// ExchangeEstimate marks quotes produced by the fallback calculator
	// rather than a live venue. It is never attributed to a source that
	// did not actually respond.
	ExchangeEstimate Exchange = "estimate"
)

// Quote is a priced swap estimate from one exchange. Amounts are in base
// units of the respective asset. Quotes are request-scoped value objects;
// they are never mutated or persisted.
type Quote struct {
	Exchange     Exchange `json:"exchange"`
	InputAsset   uint64   `json:"input_asset"`
	OutputAsset  uint64   `json:"output_asset"`
	InputAmount  uint64   `json:"input_amount"`
	OutputAmount uint64   `json:"output_amount"`
	PriceImpact  float64  `json:"price_impact"`
	Fee          uint64   `json:"fee"`
	Slippage     float64  `json:"slippage,omitempty"`

	// Estimated is true when the quote was synthesized by the fallback
	// calculator instead of coming from a live market.
	Estimated bool `json:"estimated"`
}
