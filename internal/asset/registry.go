// Package asset provides a read-only registry of known Algorand assets.
// The registry is constructed explicitly and injected into whatever needs
// it; it carries no mutable state and is safe for concurrent reads.
package asset

import (
	"fmt"
	"sort"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// syntheticDecimals is used for descriptors synthesized for unknown ids.
// Six decimal places matches ALGO and the common stablecoin ASAs.
const syntheticDecimals = 6

// Registry maps asset ids to descriptors. Lookups never fail: unknown ids
// yield a synthesized generic descriptor so callers always get something
// usable to render.
type Registry struct {
	byID    map[uint64]domain.AssetDescriptor
	ordered []domain.AssetDescriptor
}

// NewRegistry builds a Registry from the given table. The table is copied;
// the caller's map is not retained.
func NewRegistry(table map[uint64]domain.AssetDescriptor) *Registry {
	byID := make(map[uint64]domain.AssetDescriptor, len(table))
	ordered := make([]domain.AssetDescriptor, 0, len(table))
	for id, d := range table {
		d.ID = id
		byID[id] = d
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Registry{byID: byID, ordered: ordered}
}

// Default returns a Registry populated with well-known mainnet assets.
func Default() *Registry {
	return NewRegistry(map[uint64]domain.AssetDescriptor{
		0:         {Symbol: "ALGO", Name: "Algorand", Decimals: 6},
		312769:    {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
		31566704:  {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
		137594422: {Symbol: "HEADLINE", Name: "Headline", Decimals: 6},
		226701642: {Symbol: "YLDY", Name: "Yieldly", Decimals: 6},
		287867876: {Symbol: "OPUL", Name: "Opulous", Decimals: 10},
		386192725: {Symbol: "goETH", Name: "Algomint ETH", Decimals: 8},
		386195940: {Symbol: "goBTC", Name: "Algomint BTC", Decimals: 8},
	})
}

// Lookup returns the descriptor for the given asset id. Unknown ids get a
// synthesized "ASA-<id>" descriptor instead of an error.
func (r *Registry) Lookup(id uint64) domain.AssetDescriptor {
	if d, ok := r.byID[id]; ok {
		return d
	}
	return domain.AssetDescriptor{
		ID:       id,
		Symbol:   fmt.Sprintf("ASA-%d", id),
		Name:     fmt.Sprintf("Asset %d", id),
		Decimals: syntheticDecimals,
	}
}

// Known reports whether the id is in the registered table.
func (r *Registry) Known(id uint64) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns the registered descriptors in ascending id order. The returned
// slice is shared; callers must not modify it.
func (r *Registry) All() []domain.AssetDescriptor {
	return r.ordered
}
