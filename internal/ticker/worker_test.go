package ticker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

type stubChain struct {
	status    domain.NodeStatus
	statusErr error
	block     domain.Block
}

func (s *stubChain) Status(ctx context.Context) (domain.NodeStatus, error) {
	return s.status, s.statusErr
}

func (s *stubChain) BlockByRound(ctx context.Context, round uint64) (domain.Block, error) {
	return s.block, nil
}

type stubPrice struct{}

func (stubPrice) AlgoPrice(ctx context.Context) domain.SpotPrice {
	return domain.SpotPrice{Symbol: "ALGO", PriceUSD: 0.2, Source: "coinpaprika"}
}

type memBus struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newMemBus() *memBus {
	return &memBus{messages: make(map[string][][]byte)}
}

func (b *memBus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[channel] = append(b.messages[channel], payload)
	return nil
}

func (b *memBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *memBus) published(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[channel]
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTickPublishesStatusAndPrice(t *testing.T) {
	bus := newMemBus()
	chain := &stubChain{status: domain.NodeStatus{LastRound: 100}}
	w := NewWorker(chain, stubPrice{}, bus, time.Minute, testLogger())

	w.tick(context.Background())

	require.Len(t, bus.published("status"), 1)
	require.Len(t, bus.published("ticker"), 1)

	var env struct {
		Type    string            `json:"type"`
		Payload domain.NodeStatus `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(bus.published("status")[0], &env))
	assert.Equal(t, "node_status", env.Type)
	assert.Equal(t, uint64(100), env.Payload.LastRound)
}

func TestTickPublishesBlockOnNewRound(t *testing.T) {
	bus := newMemBus()
	chain := &stubChain{
		status: domain.NodeStatus{LastRound: 100},
		block:  domain.Block{Round: 101, TxnCount: 3},
	}
	w := NewWorker(chain, stubPrice{}, bus, time.Minute, testLogger())

	// First tick primes lastRound without a block announcement.
	w.tick(context.Background())
	assert.Empty(t, bus.published("blocks"))

	chain.status.LastRound = 101
	w.tick(context.Background())
	require.Len(t, bus.published("blocks"), 1)

	var env struct {
		Type    string       `json:"type"`
		Payload domain.Block `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(bus.published("blocks")[0], &env))
	assert.Equal(t, "block", env.Type)
	assert.Equal(t, uint64(101), env.Payload.Round)
}

func TestTickStatusFailureStillPublishesPrice(t *testing.T) {
	bus := newMemBus()
	chain := &stubChain{statusErr: errors.New("node down")}
	w := NewWorker(chain, stubPrice{}, bus, time.Minute, testLogger())

	w.tick(context.Background())

	assert.Empty(t, bus.published("status"))
	assert.Len(t, bus.published("ticker"), 1)
}
