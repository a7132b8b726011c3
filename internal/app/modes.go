package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/algoranarchy/algoranarchy/internal/server"
	"github.com/algoranarchy/algoranarchy/internal/server/handler"
	"github.com/algoranarchy/algoranarchy/internal/server/proxy"
	"github.com/algoranarchy/algoranarchy/internal/server/ws"
	"github.com/algoranarchy/algoranarchy/internal/ticker"
)

// shutdownTimeout bounds graceful HTTP shutdown after the context ends.
const shutdownTimeout = 10 * time.Second

// ServerMode runs the HTTP + WebSocket API without the background ticker.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// MonitorMode runs only the ticker worker, publishing chain and price
// updates to the signal bus for other instances to relay.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	if deps.SignalBus == nil {
		return errors.New("app: monitor mode requires redis to be enabled")
	}

	g, ctx := errgroup.WithContext(ctx)
	a.startTicker(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the HTTP + WebSocket API together with the ticker worker.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	g, ctx := errgroup.WithContext(ctx)

	a.startHTTPServer(ctx, g, deps)
	if deps.SignalBus != nil {
		a.startTicker(ctx, g, deps)
	} else {
		a.logger.Warn("redis disabled, ticker worker not started")
	}

	return g.Wait()
}

// startHTTPServer adds the API server and the WebSocket hub to the given
// errgroup. The server is shut down gracefully when the context is
// cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	hub := ws.NewHub(deps.SignalBus, a.logger)
	g.Go(func() error {
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("app: ws hub: %w", err)
		}
		return nil
	})

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(a.logger),
		Quote:   handler.NewQuoteHandler(deps.Aggregator, a.logger),
		Pool:    handler.NewPoolHandler(deps.Aggregator, a.logger),
		Asset:   handler.NewAssetHandler(deps.Assets, deps.Chain, a.logger),
		Network: handler.NewNetworkHandler(deps.Chain, a.logger),
		Price:   handler.NewPriceHandler(deps.Price, a.logger),
	}

	srvCfg := server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}
	if a.cfg.Server.RateLimit.Enabled && deps.RateLimiter != nil {
		srvCfg.RateLimiter = deps.RateLimiter
		srvCfg.RateLimit = a.cfg.Server.RateLimit.Limit
		srvCfg.RateWindow = a.cfg.Server.RateLimit.Window.Duration
	}
	if a.cfg.Server.ProxyEnabled {
		srvCfg.ProxyUpstreams = []proxy.Upstream{
			{Name: "tinyman", BaseURL: a.cfg.Dex.Tinyman.BaseURL, APIKey: a.cfg.Dex.Tinyman.APIKey},
			{Name: "pact", BaseURL: a.cfg.Dex.Pact.BaseURL, APIKey: a.cfg.Dex.Pact.APIKey},
			{Name: "vestige", BaseURL: a.cfg.Dex.Vestige.BaseURL, APIKey: a.cfg.Dex.Vestige.APIKey},
		}
	}

	srv := server.NewServer(srvCfg, handlers, hub, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// startTicker adds the polling worker to the given errgroup.
func (a *App) startTicker(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	worker := ticker.NewWorker(deps.Chain, deps.Price, deps.SignalBus, a.cfg.Ticker.Interval.Duration, a.logger)
	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("app: ticker: %w", err)
		}
		return nil
	})
}
