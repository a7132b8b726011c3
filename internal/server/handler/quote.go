package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// Quoter resolves the best available swap quote across venues.
type Quoter interface {
	BestQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error)
}

// QuoteHandler serves best-quote lookups.
type QuoteHandler struct {
	quoter Quoter
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(quoter Quoter, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{quoter: quoter, logger: logger}
}

// BestQuote returns the best quote for a swap.
// GET /api/quote/best?input_asset=0&output_asset=31566704&amount=1000000
func (h *QuoteHandler) BestQuote(w http.ResponseWriter, r *http.Request) {
	inputAsset, err := queryUint64(r, "input_asset")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	outputAsset, err := queryUint64(r, "output_asset")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	amount, err := queryUint64(r, "amount")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	quote, err := h.quoter.BestQuote(r.Context(), inputAsset, outputAsset, amount)
	if err != nil {
		h.logger.Warn("best quote failed",
			slog.Uint64("input_asset", inputAsset),
			slog.Uint64("output_asset", outputAsset),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}
