package tinyman

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

func TestFetchQuoteNormalizesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/quote", r.URL.Path)

		var req quoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uint64(0), req.InputAssetID)
		assert.Equal(t, uint64(31566704), req.OutputAssetID)
		assert.Equal(t, uint64(1_000_000), req.InputAmount)

		json.NewEncoder(w).Encode(quoteResponse{
			OutputAmount: 179_000,
			PriceImpact:  0.01,
			Fee:          3_000,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	q, err := c.FetchQuote(context.Background(), 0, 31566704, 1_000_000)
	require.NoError(t, err)

	assert.Equal(t, domain.ExchangeTinyman, q.Exchange)
	assert.Equal(t, uint64(179_000), q.OutputAmount)
	assert.Equal(t, 0.01, q.PriceImpact)
	assert.Equal(t, uint64(3_000), q.Fee)
	assert.False(t, q.Estimated)
}

func TestFetchQuoteSendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		json.NewEncoder(w).Encode(quoteResponse{OutputAmount: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	_, err := c.FetchQuote(context.Background(), 0, 312769, 100)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", gotKey)
}

func TestFetchQuoteNonSuccessStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchQuote(context.Background(), 0, 312769, 100)
	assert.Error(t, err)
}

func TestFetchQuoteMalformedBodyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchQuote(context.Background(), 0, 312769, 100)
	assert.Error(t, err)
}

func TestFetchQuoteNegativeOutputIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(quoteResponse{OutputAmount: -5})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchQuote(context.Background(), 0, 312769, 100)
	assert.Error(t, err)
}

func TestFetchQuoteRateLimitMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FetchQuote(context.Background(), 0, 312769, 100)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestFetchPoolsNormalizesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/pools", r.URL.Path)
		json.NewEncoder(w).Encode([]poolPayload{
			{Asset1ID: 0, Asset2ID: 31566704, Asset1Reserves: 10, Asset2Reserves: 20, TotalLiquidity: 14, APY: 12.5, Volume24h: 99},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	pools, err := c.FetchPools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 1)

	p := pools[0]
	assert.Equal(t, domain.ExchangeTinyman, p.Exchange)
	assert.Equal(t, uint64(0), p.Asset1)
	assert.Equal(t, uint64(31566704), p.Asset2)
	assert.Equal(t, uint64(14), p.TotalLiquidity)
	assert.Equal(t, 12.5, p.APY)
}
