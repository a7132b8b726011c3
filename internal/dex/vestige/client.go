// Package vestige is the REST client for the Vestige aggregator API.
package vestige

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

const requestTimeout = 8 * time.Second

const defaultSlippage = 0.5

// Client is the quote source for Vestige.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Vestige client. baseURL is the API root, e.g.
// "https://free-api.vestige.fi". apiKey may be empty.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Name implements dex.QuoteSource.
func (c *Client) Name() domain.Exchange { return domain.ExchangeVestige }

type quoteResponse struct {
	AmountOut   int64   `json:"amount_out"`
	PriceImpact float64 `json:"price_impact"`
	FeeAmount   int64   `json:"fee_amount"`
}

// FetchQuote requests a fixed-input swap quote.
func (c *Client) FetchQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error) {
	params := url.Values{}
	params.Set("asset_in", strconv.FormatUint(inputAsset, 10))
	params.Set("asset_out", strconv.FormatUint(outputAsset, 10))
	params.Set("amount", strconv.FormatUint(inputAmount, 10))

	respBody, err := c.do(ctx, "/swap/quote?"+params.Encode())
	if err != nil {
		return domain.Quote{}, fmt.Errorf("vestige: quote: %w", err)
	}

	var resp quoteResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("vestige: decode quote: %w", err)
	}
	if resp.AmountOut < 0 || resp.FeeAmount < 0 {
		return domain.Quote{}, fmt.Errorf("vestige: negative amounts in quote response")
	}
	if math.IsNaN(resp.PriceImpact) || math.IsInf(resp.PriceImpact, 0) {
		return domain.Quote{}, fmt.Errorf("vestige: invalid price impact in quote response")
	}

	return domain.Quote{
		Exchange:     domain.ExchangeVestige,
		InputAsset:   inputAsset,
		OutputAsset:  outputAsset,
		InputAmount:  inputAmount,
		OutputAmount: uint64(resp.AmountOut),
		PriceImpact:  resp.PriceImpact,
		Fee:          uint64(resp.FeeAmount),
		Slippage:     defaultSlippage,
	}, nil
}

type poolPayload struct {
	AssetA         uint64  `json:"asset_a"`
	AssetB         uint64  `json:"asset_b"`
	AssetAReserves uint64  `json:"asset_a_reserves"`
	AssetBReserves uint64  `json:"asset_b_reserves"`
	TotalLiquidity uint64  `json:"total_liquidity"`
	APY            float64 `json:"apy"`
	Volume24h      uint64  `json:"volume_24h"`
}

// FetchPools returns Vestige's current pool list.
func (c *Client) FetchPools(ctx context.Context) ([]domain.PoolSnapshot, error) {
	respBody, err := c.do(ctx, "/pools")
	if err != nil {
		return nil, fmt.Errorf("vestige: pools: %w", err)
	}

	var payload []poolPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("vestige: decode pools: %w", err)
	}

	pools := make([]domain.PoolSnapshot, 0, len(payload))
	for _, p := range payload {
		pools = append(pools, domain.PoolSnapshot{
			Exchange:       domain.ExchangeVestige,
			Asset1:         p.AssetA,
			Asset2:         p.AssetB,
			Asset1Reserves: p.AssetAReserves,
			Asset2Reserves: p.AssetBReserves,
			TotalLiquidity: p.TotalLiquidity,
			APY:            p.APY,
			Volume24h:      p.Volume24h,
		})
	}
	return pools, nil
}

// do sends a single GET request against the API.
func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("HTTP %d: %w", resp.StatusCode, domain.ErrRateLimited)
		}
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return respBody, nil
}
