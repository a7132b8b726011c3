package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// PriceSource resolves the ALGO spot price. It never fails; all-source
// outages surface as an estimate-tagged placeholder.
type PriceSource interface {
	AlgoPrice(ctx context.Context) domain.SpotPrice
}

// PriceHandler serves the spot-price endpoint.
type PriceHandler struct {
	source PriceSource
	logger *slog.Logger
}

// NewPriceHandler creates a PriceHandler.
func NewPriceHandler(source PriceSource, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{source: source, logger: logger}
}

// AlgoPrice returns the current ALGO/USD spot price.
// GET /api/price/algo
func (h *PriceHandler) AlgoPrice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.source.AlgoPrice(r.Context()))
}
