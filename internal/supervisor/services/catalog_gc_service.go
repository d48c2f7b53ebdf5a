// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meettm/internal/metrics"
)

// CatalogGC is the maintenance capability of the event catalog.
// Satisfied by *catalog.Store.
type CatalogGC interface {
	RunGC(ratio float64) (int, error)
}

// CatalogGCServiceConfig holds configuration for the catalog GC service.
type CatalogGCServiceConfig struct {
	// Interval between GC passes. Default: 10m
	Interval time.Duration

	// DiscardRatio is passed to badger's RunValueLogGC. Default: 0.5
	DiscardRatio float64
}

// CatalogGCService reclaims value log space of the event catalog on a schedule.
type CatalogGCService struct {
	catalog CatalogGC
	config  CatalogGCServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewCatalogGCService creates a new catalog GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogGCService(catalog CatalogGC, cfg CatalogGCServiceConfig, logger zerolog.Logger) *CatalogGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio >= 1 {
		cfg.DiscardRatio = 0.5
	}
	return &CatalogGCService{
		catalog: catalog,
		config:  cfg,
		logger:  logger.With().Str("service", "catalog-gc").Logger(),
		name:    "catalog-gc-service",
	}
}

// Serve implements the suture.Service interface.
func (s *CatalogGCService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Msg("catalog GC service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog GC service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *CatalogGCService) runOnce() {
	start := time.Now()
	rewrites, err := s.catalog.RunGC(s.config.DiscardRatio)
	switch {
	case err != nil:
		metrics.CatalogGCRuns.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Int("rewrites", rewrites).Msg("catalog GC failed")
	case rewrites == 0:
		metrics.CatalogGCRuns.WithLabelValues("nothing_to_do").Inc()
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("catalog GC found nothing to rewrite")
	default:
		metrics.CatalogGCRuns.WithLabelValues("rewritten").Inc()
		s.logger.Info().Int("rewrites", rewrites).Dur("duration", time.Since(start)).Msg("catalog GC complete")
	}
}

// String returns the service name for logging.
func (s *CatalogGCService) String() string {
	return s.name
}
