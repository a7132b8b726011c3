// Package price resolves the ALGO/USD spot price from public market-data
// APIs. All sources are queried concurrently; the first configured source
// that answered wins. When every source fails, a static placeholder tagged
// as an estimate is returned, so callers always have something to render.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

const requestTimeout = 8 * time.Second

// Config holds the market-data API roots.
type Config struct {
	CoinPaprikaURL   string
	CryptoCompareURL string
	CoinGeckoURL     string
}

// Service fetches spot prices.
type Service struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewService creates a price Service.
func NewService(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger.With(slog.String("component", "price")),
	}
}

// fetcher resolves one source. Sources are listed in priority order.
type fetcher struct {
	source string
	fn     func(ctx context.Context) (domain.SpotPrice, error)
}

// AlgoPrice returns the current ALGO/USD spot price. It never fails: when
// all sources are unreachable the returned price is a fixed placeholder
// with Estimated set.
func (s *Service) AlgoPrice(ctx context.Context) domain.SpotPrice {
	fetchers := []fetcher{
		{source: "coinpaprika", fn: s.fromCoinPaprika},
		{source: "cryptocompare", fn: s.fromCryptoCompare},
		{source: "coingecko", fn: s.fromCoinGecko},
	}

	type result struct {
		price domain.SpotPrice
		err   error
	}
	results := make([]result, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			p, err := f.fn(ctx)
			results[i] = result{price: p, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res.err != nil {
			s.logger.Debug("price source failed",
				slog.String("source", fetchers[i].source),
				slog.String("error", res.err.Error()),
			)
			continue
		}
		return res.price
	}

	s.logger.Warn("all price sources failed, using placeholder")
	return domain.SpotPrice{
		Symbol:    "ALGO",
		PriceUSD:  0.18,
		Change24h: -1.3,
		Volume24h: 42_000_000,
		MarketCap: 1_330_000_000,
		Source:    "estimate",
		FetchedAt: time.Now().UTC(),
		Estimated: true,
	}
}

func (s *Service) fromCoinPaprika(ctx context.Context) (domain.SpotPrice, error) {
	body, err := s.get(ctx, s.cfg.CoinPaprikaURL+"/tickers/algo-algorand")
	if err != nil {
		return domain.SpotPrice{}, fmt.Errorf("coinpaprika: %w", err)
	}

	var resp struct {
		Quotes struct {
			USD struct {
				Price           float64 `json:"price"`
				PercentChange24 float64 `json:"percent_change_24h"`
				Volume24h       float64 `json:"volume_24h"`
				MarketCap       float64 `json:"market_cap"`
			} `json:"USD"`
		} `json:"quotes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.SpotPrice{}, fmt.Errorf("coinpaprika: decode: %w", err)
	}
	if resp.Quotes.USD.Price <= 0 {
		return domain.SpotPrice{}, fmt.Errorf("coinpaprika: missing USD quote")
	}

	return domain.SpotPrice{
		Symbol:    "ALGO",
		PriceUSD:  resp.Quotes.USD.Price,
		Change24h: resp.Quotes.USD.PercentChange24,
		Volume24h: resp.Quotes.USD.Volume24h,
		MarketCap: resp.Quotes.USD.MarketCap,
		Source:    "coinpaprika",
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) fromCryptoCompare(ctx context.Context) (domain.SpotPrice, error) {
	body, err := s.get(ctx, s.cfg.CryptoCompareURL+"/price?fsym=ALGO&tsyms=USD")
	if err != nil {
		return domain.SpotPrice{}, fmt.Errorf("cryptocompare: %w", err)
	}

	var resp struct {
		USD float64 `json:"USD"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.SpotPrice{}, fmt.Errorf("cryptocompare: decode: %w", err)
	}
	if resp.USD <= 0 {
		return domain.SpotPrice{}, fmt.Errorf("cryptocompare: missing USD price")
	}

	price := domain.SpotPrice{
		Symbol:    "ALGO",
		PriceUSD:  resp.USD,
		Source:    "cryptocompare",
		FetchedAt: time.Now().UTC(),
	}

	// 24h change comes from the daily history endpoint; the spot price is
	// still usable when that second call fails.
	if histBody, err := s.get(ctx, s.cfg.CryptoCompareURL+"/histoday?fsym=ALGO&tsym=USD&limit=1"); err == nil {
		var hist struct {
			Data []struct {
				Close float64 `json:"close"`
			} `json:"Data"`
		}
		if err := json.Unmarshal(histBody, &hist); err == nil && len(hist.Data) > 0 && hist.Data[0].Close > 0 {
			price.Change24h = (resp.USD - hist.Data[0].Close) / hist.Data[0].Close * 100
		}
	}

	return price, nil
}

func (s *Service) fromCoinGecko(ctx context.Context) (domain.SpotPrice, error) {
	body, err := s.get(ctx, s.cfg.CoinGeckoURL+"/simple/price?ids=algorand&vs_currencies=usd&include_24hr_change=true&include_24hr_vol=true&include_market_cap=true")
	if err != nil {
		return domain.SpotPrice{}, fmt.Errorf("coingecko: %w", err)
	}

	var resp map[string]struct {
		USD          float64 `json:"usd"`
		USDChange24h float64 `json:"usd_24h_change"`
		USDVolume24h float64 `json:"usd_24h_vol"`
		USDMarketCap float64 `json:"usd_market_cap"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.SpotPrice{}, fmt.Errorf("coingecko: decode: %w", err)
	}
	data, ok := resp["algorand"]
	if !ok || data.USD <= 0 {
		return domain.SpotPrice{}, fmt.Errorf("coingecko: missing algorand entry")
	}

	return domain.SpotPrice{
		Symbol:    "ALGO",
		PriceUSD:  data.USD,
		Change24h: data.USDChange24h,
		Volume24h: data.USDVolume24h,
		MarketCap: data.USDMarketCap,
		Source:    "coingecko",
		FetchedAt: time.Now().UTC(),
	}, nil
}

// get sends a single GET request and returns the body for 2xx responses.
func (s *Service) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return body, nil
}
