// Package server exposes the explorer's HTTP and WebSocket API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/algoranarchy/algoranarchy/internal/domain"
	"github.com/algoranarchy/algoranarchy/internal/server/handler"
	"github.com/algoranarchy/algoranarchy/internal/server/middleware"
	"github.com/algoranarchy/algoranarchy/internal/server/proxy"
	"github.com/algoranarchy/algoranarchy/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// RateLimiter, when non-nil, enforces RateLimit requests per RateWindow
	// per client IP.
	RateLimiter domain.RateLimiter
	RateLimit   int
	RateWindow  time.Duration

	// ProxyUpstreams are mounted as reverse proxies under /api/{name}/.
	ProxyUpstreams []proxy.Upstream
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health  *handler.HealthHandler
	Quote   *handler.QuoteHandler
	Pool    *handler.PoolHandler
	Asset   *handler.AssetHandler
	Network *handler.NetworkHandler
	Price   *handler.PriceHandler
}

// Server is the headless HTTP + WebSocket API server for the explorer.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (CORS, request IDs, logging, auth, rate limiting)
// and attaches the WebSocket hub and DEX reverse proxies.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Quote aggregation.
	mux.HandleFunc("GET /api/quote/best", handlers.Quote.BestQuote)

	// Pool analytics.
	mux.HandleFunc("GET /api/pools/analytics", handlers.Pool.Analytics)

	// Asset directory.
	mux.HandleFunc("GET /api/assets", handlers.Asset.List)
	mux.HandleFunc("GET /api/assets/{id}", handlers.Asset.Get)

	// Chain explorer endpoints.
	mux.HandleFunc("GET /api/network/status", handlers.Network.Status)
	mux.HandleFunc("GET /api/network/supply", handlers.Network.Supply)
	mux.HandleFunc("GET /api/network/stats", handlers.Network.Stats)
	mux.HandleFunc("GET /api/blocks", handlers.Network.ListBlocks)
	mux.HandleFunc("GET /api/blocks/{round}", handlers.Network.GetBlock)
	mux.HandleFunc("GET /api/transactions", handlers.Network.ListTransactions)

	// Spot price.
	mux.HandleFunc("GET /api/price/algo", handlers.Price.AlgoPrice)

	// DEX reverse proxies.
	proxy.Mount(mux, cfg.ProxyUpstreams, logger)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain, innermost first.
	var h http.Handler = mux

	if cfg.RateLimiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit, cfg.RateWindow)(h)
	}

	// Auth middleware skips if APIKey is empty.
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
