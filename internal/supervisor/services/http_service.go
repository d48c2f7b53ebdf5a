// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the lifecycle surface of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServiceConfig holds the HTTP service settings.
type HTTPServiceConfig struct {
	// Addr is only used for logging; the server already knows where to bind.
	Addr string

	// ShutdownTimeout bounds the graceful drain of in-flight requests.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// HTTPServerService runs the API server under supervision. ListenAndServe
// runs in a goroutine; cancellation of the Serve context triggers a graceful
// Shutdown with its own deadline, since the Serve context is already done.
type HTTPServerService struct {
	server HTTPServer
	config HTTPServiceConfig
	logger zerolog.Logger
	name   string
}

// NewHTTPServerService wraps server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, cfg HTTPServiceConfig, logger zerolog.Logger) *HTTPServerService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server: server,
		config: cfg,
		logger: logger.With().Str("service", "http-server").Logger(),
		name:   "http-server",
	}
}

// Serve implements suture.Service. A bind or serve failure is returned so
// the supervisor restarts the server; http.ErrServerClosed is not a failure.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	h.logger.Info().Str("addr", h.config.Addr).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		if err != nil {
			h.logger.Error().Err(err).Str("addr", h.config.Addr).Msg("HTTP server failed")
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		h.logger.Info().Dur("timeout", h.config.ShutdownTimeout).Msg("HTTP server draining")
		start := time.Now()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.config.ShutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Warn().Err(err).Msg("HTTP server shutdown incomplete")
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		h.logger.Info().Dur("duration", time.Since(start)).Msg("HTTP server stopped")
		return ctx.Err()
	}
}

// String names the service in supervisor events.
func (h *HTTPServerService) String() string {
	return h.name
}
