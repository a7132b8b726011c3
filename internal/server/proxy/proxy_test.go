package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestProxyForwardsAndStripsPrefix(t *testing.T) {
	var gotPath, gotKey, gotCookie string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	mux := http.NewServeMux()
	Mount(mux, []Upstream{
		{Name: "tinyman", BaseURL: upstream.URL, APIKey: "secret"},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/tinyman/v1/pools?limit=5", nil)
	req.Header.Set("Cookie", "session=abc")
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/v1/pools", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Empty(t, gotCookie, "browser credentials must not reach the upstream")
}

func TestProxyUpstreamDownIsBadGateway(t *testing.T) {
	mux := http.NewServeMux()
	Mount(mux, []Upstream{
		{Name: "pact", BaseURL: "http://127.0.0.1:1"},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/pact/pools", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}

func TestMountSkipsInvalidUpstream(t *testing.T) {
	mux := http.NewServeMux()
	Mount(mux, []Upstream{
		{Name: "vestige", BaseURL: "://not-a-url"},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/vestige/pools", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
