package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// AssetDirectory is the curated asset table.
type AssetDirectory interface {
	Lookup(id uint64) domain.AssetDescriptor
	Known(id uint64) bool
	All() []domain.AssetDescriptor
}

// ChainAssetReader looks up on-chain asset parameters via the indexer.
// It may be nil when the indexer is not configured.
type ChainAssetReader interface {
	AssetByID(ctx context.Context, id uint64) (domain.AssetDescriptor, error)
	SearchAssets(ctx context.Context, query string, limit int) ([]domain.AssetDescriptor, error)
}

// AssetHandler serves the asset directory. Lookups prefer the curated table
// and fall back to the indexer for assets it does not know.
type AssetHandler struct {
	directory AssetDirectory
	chain     ChainAssetReader
	logger    *slog.Logger
}

// NewAssetHandler creates an AssetHandler. chain may be nil.
func NewAssetHandler(directory AssetDirectory, chain ChainAssetReader, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{directory: directory, chain: chain, logger: logger}
}

// List returns all curated assets, or indexer search results when a "search"
// query parameter is present.
// GET /api/assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("search"); query != "" && h.chain != nil {
		limit := queryLimit(r, 10, 100)
		assets, err := h.chain.SearchAssets(r.Context(), query, limit)
		if err != nil {
			h.logger.Warn("asset search failed",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"assets": assets})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"assets": h.directory.All()})
}

// Get returns a single asset by ID. Unknown IDs resolve through the indexer
// when it is configured, then fall back to a synthesized descriptor so the
// endpoint never fails on a valid ID.
// GET /api/assets/{id}
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint64(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.directory.Known(id) {
		writeJSON(w, http.StatusOK, h.directory.Lookup(id))
		return
	}

	if h.chain != nil {
		if asset, err := h.chain.AssetByID(r.Context(), id); err == nil {
			writeJSON(w, http.StatusOK, asset)
			return
		}
	}

	writeJSON(w, http.StatusOK, h.directory.Lookup(id))
}
