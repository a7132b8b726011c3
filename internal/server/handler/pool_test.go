package handler

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

type stubAnalyst struct {
	summary domain.PoolAnalyticsSummary
	err     error

	gotAsset1 uint64
	gotAsset2 uint64
}

func (s *stubAnalyst) PoolAnalytics(ctx context.Context, a1, a2 uint64) (domain.PoolAnalyticsSummary, error) {
	s.gotAsset1, s.gotAsset2 = a1, a2
	return s.summary, s.err
}

func TestAnalyticsReturnsSummary(t *testing.T) {
	a := &stubAnalyst{summary: domain.PoolAnalyticsSummary{
		PoolCount:      2,
		TotalLiquidity: 1000,
		AverageAPY:     10.5,
	}}
	h := NewPoolHandler(a, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/pools/analytics?asset1=0&asset2=31566704", nil)
	rec := httptest.NewRecorder()
	h.Analytics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(0), a.gotAsset1)
	assert.Equal(t, uint64(31566704), a.gotAsset2)

	var got domain.PoolAnalyticsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.PoolCount)
	assert.Equal(t, 10.5, got.AverageAPY)
}

func TestAnalyticsMissingParamIsBadRequest(t *testing.T) {
	h := NewPoolHandler(&stubAnalyst{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/pools/analytics?asset1=0", nil)
	rec := httptest.NewRecorder()
	h.Analytics(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsSameAssetMapsToBadRequest(t *testing.T) {
	h := NewPoolHandler(&stubAnalyst{err: domain.ErrInvalidRequest}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/pools/analytics?asset1=5&asset2=5", nil)
	rec := httptest.NewRecorder()
	h.Analytics(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
