package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

type stubQuoter struct {
	quote domain.Quote
	err   error

	gotInput  uint64
	gotOutput uint64
	gotAmount uint64
}

func (s *stubQuoter) BestQuote(ctx context.Context, in, out, amount uint64) (domain.Quote, error) {
	s.gotInput, s.gotOutput, s.gotAmount = in, out, amount
	return s.quote, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBestQuoteReturnsQuote(t *testing.T) {
	q := &stubQuoter{quote: domain.Quote{
		Exchange:     domain.ExchangeTinyman,
		InputAsset:   0,
		OutputAsset:  31566704,
		InputAmount:  1_000_000,
		OutputAmount: 179_000,
	}}
	h := NewQuoteHandler(q, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/quote/best?input_asset=0&output_asset=31566704&amount=1000000", nil)
	rec := httptest.NewRecorder()
	h.BestQuote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(0), q.gotInput)
	assert.Equal(t, uint64(31566704), q.gotOutput)
	assert.Equal(t, uint64(1_000_000), q.gotAmount)

	var got domain.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(179_000), got.OutputAmount)
	assert.Equal(t, domain.ExchangeTinyman, got.Exchange)
}

func TestBestQuoteMissingParamIsBadRequest(t *testing.T) {
	h := NewQuoteHandler(&stubQuoter{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/quote/best?input_asset=0", nil)
	rec := httptest.NewRecorder()
	h.BestQuote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBestQuoteNonNumericParamIsBadRequest(t *testing.T) {
	h := NewQuoteHandler(&stubQuoter{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/quote/best?input_asset=abc&output_asset=1&amount=10", nil)
	rec := httptest.NewRecorder()
	h.BestQuote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBestQuoteInvalidPairMapsToBadRequest(t *testing.T) {
	h := NewQuoteHandler(&stubQuoter{err: domain.ErrInvalidRequest}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/quote/best?input_asset=5&output_asset=5&amount=10", nil)
	rec := httptest.NewRecorder()
	h.BestQuote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
