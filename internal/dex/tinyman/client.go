// Package tinyman is the REST client for the Tinyman analytics API.
package tinyman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// requestTimeout bounds every outbound call. A source that cannot answer
// within this window is treated as failed for the current request.
const requestTimeout = 8 * time.Second

// defaultSlippage is the slippage tolerance (percent) sent with quote
// requests when the caller does not specify one.
const defaultSlippage = 0.5

// Client is the quote source for Tinyman.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Tinyman client. baseURL is the API root, e.g.
// "https://mainnet.analytics.tinyman.org". apiKey may be empty.
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
func (c *Client) Name() domain.Exchange { return domain.ExchangeTinyman }

type quoteRequest struct {
	InputAssetID  uint64  `json:"input_asset_id"`
	OutputAssetID uint64  `json:"output_asset_id"`
	InputAmount   uint64  `json:"input_amount"`
	Slippage      float64 `json:"slippage"`
}

type quoteResponse struct {
	OutputAmount int64   `json:"output_amount"`
	PriceImpact  float64 `json:"price_impact"`
	Fee          int64   `json:"fee"`
}

// FetchQuote requests a fixed-input swap quote.
func (c *Client) FetchQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error) {
	body := quoteRequest{
		InputAssetID:  inputAsset,
		OutputAssetID: outputAsset,
		InputAmount:   inputAmount,
		Slippage:      defaultSlippage,
	}

	respBody, err := c.do(ctx, http.MethodPost, "/v1/quote", body)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("tinyman: quote: %w", err)
	}

	var resp quoteResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("tinyman: decode quote: %w", err)
	}
	if resp.OutputAmount < 0 || resp.Fee < 0 {
		return domain.Quote{}, fmt.Errorf("tinyman: negative amounts in quote response")
	}
	if math.IsNaN(resp.PriceImpact) || math.IsInf(resp.PriceImpact, 0) {
		return domain.Quote{}, fmt.Errorf("tinyman: invalid price impact in quote response")
	}

	return domain.Quote{
		Exchange:     domain.ExchangeTinyman,
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
	Asset1ID       uint64  `json:"asset_1_id"`
	Asset2ID       uint64  `json:"asset_2_id"`
	Asset1Reserves uint64  `json:"asset_1_reserves"`
	Asset2Reserves uint64  `json:"asset_2_reserves"`
	TotalLiquidity uint64  `json:"total_liquidity"`
	APY            float64 `json:"apy"`
	Volume24h      uint64  `json:"volume_24h"`
}

// FetchPools returns Tinyman's current pool list.
func (c *Client) FetchPools(ctx context.Context) ([]domain.PoolSnapshot, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/v1/pools", nil)
	if err != nil {
		return nil, fmt.Errorf("tinyman: pools: %w", err)
	}

	var payload []poolPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("tinyman: decode pools: %w", err)
	}

	pools := make([]domain.PoolSnapshot, 0, len(payload))
	for _, p := range payload {
		pools = append(pools, domain.PoolSnapshot{
			Exchange:       domain.ExchangeTinyman,
			Asset1:         p.Asset1ID,
			Asset2:         p.Asset2ID,
			Asset1Reserves: p.Asset1Reserves,
			Asset2Reserves: p.Asset2Reserves,
			TotalLiquidity: p.TotalLiquidity,
			APY:            p.APY,
			Volume24h:      p.Volume24h,
		})
	}
	return pools, nil
}

// do builds, sends, and reads a single HTTP request against the API.
func (c *Client) do(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
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
