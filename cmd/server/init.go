// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/meettm/internal/api"
	"github.com/tomtom215/meettm/internal/catalog"
	"github.com/tomtom215/meettm/internal/config"
	"github.com/tomtom215/meettm/internal/logging"
	"github.com/tomtom215/meettm/internal/recommend"
	"github.com/tomtom215/meettm/internal/textgen"
)

// catalogGCGrace is added to the HTTP drain timeout for the supervisor's
// per-service stop deadline, so a GC pass in flight can finish.
const catalogGCGrace = 5 * time.Second

func openCatalog(cfg *config.Config) (*catalog.Store, error) {
	store, err := catalog.Open(catalog.Config{
		Path:       cfg.Catalog.Path,
		InMemory:   cfg.Catalog.InMemory,
		SyncWrites: cfg.Catalog.SyncWrites,
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return store, nil
}

// newGenerator builds the text-generation client behind its circuit breaker.
// Without credentials the service still runs; every model call falls back.
func newGenerator(cfg *config.Config) (recommend.Generator, error) {
	if !cfg.TextGen.Configured() {
		logging.Warn().Msg("Text generation credentials not configured (GOOGLE_API_KEY or GOOGLE_OAUTH_BEARER); all recommendations will use the local fallback")
		return textgen.Unconfigured{}, nil
	}

	client, err := textgen.NewClient(textgen.Config{
		BaseURL:           cfg.TextGen.BaseURL,
		APIKey:            cfg.TextGen.APIKey,
		BearerToken:       cfg.TextGen.BearerToken,
		Temperature:       cfg.TextGen.Temperature,
		MaxOutputTokens:   cfg.TextGen.MaxOutputTokens,
		RequestsPerMinute: cfg.TextGen.RequestsPerMinute,
		HTTPTimeout:       cfg.TextGen.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create text generation client: %w", err)
	}

	breakerCfg := textgen.DefaultBreakerConfig()
	if cfg.TextGen.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.TextGen.BreakerTimeout
	}
	logging.Info().
		Str("endpoint", client.Endpoint()).
		Int("requests_per_minute", cfg.TextGen.RequestsPerMinute).
		Dur("breaker_timeout", breakerCfg.Timeout).
		Int("cache_size", cfg.TextGen.CacheSize).
		Msg("Text generation client configured")

	// Cache outside the breaker so hits neither count toward nor wait on it.
	return textgen.NewCachedGenerator(textgen.NewBreakerClient(client, breakerCfg), textgen.CacheConfig{
		Size: cfg.TextGen.CacheSize,
		TTL:  cfg.TextGen.CacheTTL,
	}), nil
}

func newHTTPServer(cfg *config.Config, handler *api.Handler) *http.Server {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(handler, api.RouterConfig{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Middleware:   mw,
	})

	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		// Model calls are bounded by the gateway timeout; leave headroom to
		// write the fallback after one times out.
		WriteTimeout: cfg.Server.Timeout + cfg.Recommend.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}
}
