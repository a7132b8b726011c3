// Package pact is the REST client for the Pact DEX API.
package pact

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

// Client is the quote source for Pact.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Pact client. baseURL is the API root, e.g.
// "https://api.pact.fi". apiKey may be empty.
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
func (c *Client) Name() domain.Exchange { return domain.ExchangePact }

type quoteResponse struct {
	OutputAmount int64   `json:"output_amount"`
	PriceImpact  float64 `json:"price_impact"`
	Fee          int64   `json:"fee"`
}

// FetchQuote requests a fixed-input swap quote.
func (c *Client) FetchQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error) {
	params := url.Values{}
	params.Set("primary_asset_id", strconv.FormatUint(inputAsset, 10))
	params.Set("secondary_asset_id", strconv.FormatUint(outputAsset, 10))
	params.Set("amount", strconv.FormatUint(inputAmount, 10))
	params.Set("swap_type", "fixed_input")

	respBody, err := c.do(ctx, "/quote?"+params.Encode())
	if err != nil {
		return domain.Quote{}, fmt.Errorf("pact: quote: %w", err)
	}

	var resp quoteResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("pact: decode quote: %w", err)
	}
	if resp.OutputAmount < 0 || resp.Fee < 0 {
		return domain.Quote{}, fmt.Errorf("pact: negative amounts in quote response")
	}
	if math.IsNaN(resp.PriceImpact) || math.IsInf(resp.PriceImpact, 0) {
		return domain.Quote{}, fmt.Errorf("pact: invalid price impact in quote response")
	}

	return domain.Quote{
		Exchange:     domain.ExchangePact,
		InputAsset:   inputAsset,
		OutputAsset:  outputAsset,
		InputAmount:  inputAmount,
		OutputAmount: uint64(resp.OutputAmount),
		PriceImpact:  resp.PriceImpact,
		Fee:          uint64(resp.Fee),
		Slippage:     defaultSlippage,
	}, nil
}

type poolPayload struct {
	PrimaryAssetID        uint64  `json:"primary_asset_id"`
	SecondaryAssetID      uint64  `json:"secondary_asset_id"`
	PrimaryAssetReserves  uint64  `json:"primary_asset_reserves"`
	SecondaryAssetReserve uint64  `json:"secondary_asset_reserves"`
	TotalLiquidity        uint64  `json:"total_liquidity"`
	APY                   float64 `json:"apy"`
	Volume24h             uint64  `json:"volume_24h"`
}

// FetchPools returns Pact's current pool list.
func (c *Client) FetchPools(ctx context.Context) ([]domain.PoolSnapshot, error) {
	respBody, err := c.do(ctx, "/pools")
	if err != nil {
		return nil, fmt.Errorf("pact: pools: %w", err)
	}

	var payload []poolPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("pact: decode pools: %w", err)
	}

	pools := make([]domain.PoolSnapshot, 0, len(payload))
	for _, p := range payload {
		pools = append(pools, domain.PoolSnapshot{
			Exchange:       domain.ExchangePact,
			Asset1:         p.PrimaryAssetID,
			Asset2:         p.SecondaryAssetID,
			Asset1Reserves: p.PrimaryAssetReserves,
			Asset2Reserves: p.SecondaryAssetReserve,
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
