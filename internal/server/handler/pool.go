package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// PoolAnalyst aggregates pool analytics across venues for an asset pair.
type PoolAnalyst interface {
	PoolAnalytics(ctx context.Context, asset1, asset2 uint64) (domain.PoolAnalyticsSummary, error)
}

// PoolHandler serves pool analytics lookups.
type PoolHandler struct {
	analyst PoolAnalyst
	logger  *slog.Logger
}

// NewPoolHandler creates a PoolHandler.
func NewPoolHandler(analyst PoolAnalyst, logger *slog.Logger) *PoolHandler {
	return &PoolHandler{analyst: analyst, logger: logger}
}

// Analytics returns aggregated pool analytics for an asset pair.
// GET /api/pools/analytics?asset1=0&asset2=31566704
func (h *PoolHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	asset1, err := queryUint64(r, "asset1")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	asset2, err := queryUint64(r, "asset2")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summary, err := h.analyst.PoolAnalytics(r.Context(), asset1, asset2)
	if err != nil {
		h.logger.Warn("pool analytics failed",
			slog.Uint64("asset1", asset1),
			slog.Uint64("asset2", asset2),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
