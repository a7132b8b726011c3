package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

func TestLookupKnownAsset(t *testing.T) {
	r := Default()

	d := r.Lookup(31566704)
	assert.Equal(t, "USDC", d.Symbol)
	assert.Equal(t, "USD Coin", d.Name)
	assert.Equal(t, uint(6), d.Decimals)
	assert.Equal(t, uint64(31566704), d.ID)
}

func TestLookupUnknownAssetSynthesizes(t *testing.T) {
	r := Default()

	d := r.Lookup(999999999)
	assert.Equal(t, "ASA-999999999", d.Symbol)
	assert.Equal(t, "Asset 999999999", d.Name)
	assert.Equal(t, uint(6), d.Decimals)
	assert.Equal(t, uint64(999999999), d.ID)
	assert.False(t, r.Known(999999999))
}

func TestAllIsOrderedByID(t *testing.T) {
	r := Default()

	all := r.All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
	assert.Equal(t, uint64(0), all[0].ID, "ALGO should be first")
}

func TestCustomTableInjection(t *testing.T) {
	r := NewRegistry(map[uint64]domain.AssetDescriptor{
		42: {Symbol: "TEST", Name: "Test Token", Decimals: 2},
	})

	d := r.Lookup(42)
	assert.Equal(t, "TEST", d.Symbol)
	assert.Equal(t, uint(2), d.Decimals)
	assert.True(t, r.Known(42))
	assert.Len(t, r.All(), 1)
}
