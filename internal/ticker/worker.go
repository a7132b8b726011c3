// Package ticker periodically polls the node and the price feeds and
// publishes dashboard updates on the signal bus for the WebSocket hub.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

const defaultInterval = 10 * time.Second

// ChainReader is the subset of node reads the worker needs.
type ChainReader interface {
	Status(ctx context.Context) (domain.NodeStatus, error)
	BlockByRound(ctx context.Context, round uint64) (domain.Block, error)
}

// PriceSource resolves the ALGO spot price.
type PriceSource interface {
	AlgoPrice(ctx context.Context) domain.SpotPrice
}

// Worker polls chain state and prices on a fixed interval and publishes
// JSON envelopes to the signal bus.
type Worker struct {
	chain    ChainReader
	price    PriceSource
	bus      domain.SignalBus
	interval time.Duration
	logger   *slog.Logger

	lastRound uint64
}

// NewWorker creates a ticker Worker. interval <= 0 falls back to a 10s
// default.
func NewWorker(chain ChainReader, price PriceSource, bus domain.SignalBus, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		chain:    chain,
		price:    price,
		bus:      bus,
		interval: interval,
		logger:   logger.With(slog.String("component", "ticker")),
	}
}

// Run executes the polling loop until the context is cancelled. The first
// tick fires immediately so dashboards are not empty for a full interval
// after startup.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("ticker: starting", slog.Duration("interval", w.interval))

	w.tick(ctx)

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ticker: stopping")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	w.publishStatus(ctx)
	w.publishPrice(ctx)
}

func (w *Worker) publishStatus(ctx context.Context) {
	status, err := w.chain.Status(ctx)
	if err != nil {
		w.logger.Warn("ticker: node status failed", slog.String("error", err.Error()))
		return
	}

	w.publish(ctx, "status", "node_status", status)

	// Announce each newly observed round with its block summary.
	if status.LastRound > w.lastRound {
		if w.lastRound != 0 {
			if block, err := w.chain.BlockByRound(ctx, status.LastRound); err == nil {
				w.publish(ctx, "blocks", "block", block)
			}
		}
		w.lastRound = status.LastRound
	}
}

func (w *Worker) publishPrice(ctx context.Context) {
	w.publish(ctx, "ticker", "spot_price", w.price.AlgoPrice(ctx))
}

// publish wraps the payload in a typed envelope and sends it to the bus.
func (w *Worker) publish(ctx context.Context, channel, msgType string, payload any) {
	data, err := json.Marshal(envelope{Type: msgType, Payload: payload})
	if err != nil {
		w.logger.Error("ticker: encode payload failed",
			slog.String("type", msgType),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := w.bus.Publish(ctx, channel, data); err != nil {
		w.logger.Warn("ticker: publish failed",
			slog.String("channel", channel),
			slog.String("error", fmt.Sprintf("%v", err)),
		)
	}
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
