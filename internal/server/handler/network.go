package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// ChainReader exposes the node and indexer reads the explorer endpoints need.
type ChainReader interface {
	Status(ctx context.Context) (domain.NodeStatus, error)
	Supply(ctx context.Context) (domain.LedgerSupply, error)
	NetworkStats(ctx context.Context) (domain.NetworkStats, error)
	LatestBlocks(ctx context.Context, count int) ([]domain.Block, error)
	BlockByRound(ctx context.Context, round uint64) (domain.Block, error)
	LatestTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// NetworkHandler serves node status, supply, and chain activity endpoints.
type NetworkHandler struct {
	chain  ChainReader
	logger *slog.Logger
}

// NewNetworkHandler creates a NetworkHandler.
func NewNetworkHandler(chain ChainReader, logger *slog.Logger) *NetworkHandler {
	return &NetworkHandler{chain: chain, logger: logger}
}

// Status returns the node's sync status.
// GET /api/network/status
func (h *NetworkHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.chain.Status(r.Context())
	if err != nil {
		h.logger.Warn("node status failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Supply returns the ledger supply.
// GET /api/network/supply
func (h *NetworkHandler) Supply(w http.ResponseWriter, r *http.Request) {
	supply, err := h.chain.Supply(r.Context())
	if err != nil {
		h.logger.Warn("ledger supply failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supply)
}

// Stats returns derived network activity statistics.
// GET /api/network/stats
func (h *NetworkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.chain.NetworkStats(r.Context())
	if err != nil {
		h.logger.Warn("network stats failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListBlocks returns the most recent blocks.
// GET /api/blocks?limit=10
func (h *NetworkHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 10, 50)
	blocks, err := h.chain.LatestBlocks(r.Context(), limit)
	if err != nil {
		h.logger.Warn("list blocks failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": blocks})
}

// GetBlock returns a single block by round.
// GET /api/blocks/{round}
func (h *NetworkHandler) GetBlock(w http.ResponseWriter, r *http.Request) {
	round, err := pathUint64(r, "round")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	block, err := h.chain.BlockByRound(r.Context(), round)
	if err != nil {
		h.logger.Warn("get block failed",
			slog.Uint64("round", round),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

// ListTransactions returns the most recent transactions.
// GET /api/transactions?limit=20
func (h *NetworkHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 100)
	txns, err := h.chain.LatestTransactions(r.Context(), limit)
	if err != nil {
		h.logger.Warn("list transactions failed", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}
