// Package proxy mounts reverse proxies for the DEX analytics APIs so the
// browser frontend can reach them without CORS issues and without shipping
// API keys to the client.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// Upstream describes one proxied API.
type Upstream struct {
	// Name is the mount segment: /api/{name}/... forwards to BaseURL.
	Name    string
	BaseURL string
	// APIKey, when set, is injected as X-API-Key on forwarded requests.
	APIKey string
}

// Mount registers a reverse proxy for each upstream on the mux under
// /api/{name}/. Upstreams with an unparsable base URL are skipped with a
// log entry rather than failing startup.
func Mount(mux *http.ServeMux, upstreams []Upstream, logger *slog.Logger) {
	for _, up := range upstreams {
		target, err := url.Parse(up.BaseURL)
		if err != nil || target.Host == "" {
			logger.Error("proxy: invalid upstream URL, skipping",
				slog.String("upstream", up.Name),
				slog.String("url", up.BaseURL),
			)
			continue
		}

		prefix := "/api/" + up.Name
		mux.Handle(prefix+"/", newReverseProxy(target, prefix, up.APIKey, logger))
		logger.Info("proxy: mounted upstream",
			slog.String("upstream", up.Name),
			slog.String("target", target.Host),
		)
	}
}

func newReverseProxy(target *url.URL, prefix, apiKey string, logger *slog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()

			// Strip the mount prefix so /api/tinyman/v1/pools forwards as
			// {target.Path}/v1/pools.
			trimmed := strings.TrimPrefix(pr.In.URL.Path, prefix)
			if trimmed == "" {
				trimmed = "/"
			}
			pr.Out.URL.Path = strings.TrimSuffix(target.Path, "/") + trimmed

			// Never forward browser credentials upstream.
			pr.Out.Header.Del("Cookie")
			pr.Out.Header.Del("Authorization")
			if apiKey != "" {
				pr.Out.Header.Set("X-API-Key", apiKey)
			}
			pr.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("proxy: upstream error",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"upstream unavailable"}`))
		},
	}
}
