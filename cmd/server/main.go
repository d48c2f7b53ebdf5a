// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/meettm/internal/api"
	"github.com/tomtom215/meettm/internal/config"
	"github.com/tomtom215/meettm/internal/hype"
	"github.com/tomtom215/meettm/internal/logging"
	"github.com/tomtom215/meettm/internal/recommend"
	"github.com/tomtom215/meettm/internal/supervisor"
	"github.com/tomtom215/meettm/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("MeetTM stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("textgen_configured", cfg.TextGen.Configured()).
		Str("hype_preset", cfg.Recommend.HypePreset).
		Bool("catalog_in_memory", cfg.Catalog.InMemory).
		Msg("Starting MeetTM")

	thresholds, err := hype.ThresholdsByName(cfg.Recommend.HypePreset)
	if err != nil {
		return err
	}
	scorer := hype.NewScorer(thresholds)

	store, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	gateway, err := recommend.NewGateway(gen, recommend.GatewayConfig{
		MaxResults:          cfg.Recommend.MaxResults,
		Timeout:             cfg.Recommend.Timeout,
		MaxPromptCandidates: cfg.Recommend.MaxPromptCandidates,
	}, logging.Logger())
	if err != nil {
		return fmt.Errorf("create recommendation gateway: %w", err)
	}

	handler, err := api.NewHandler(gateway, store, scorer)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}
	server := newHTTPServer(cfg, handler)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + catalogGCGrace,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewCatalogGCService(store, services.CatalogGCServiceConfig{
		Interval: cfg.Catalog.GCInterval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, services.HTTPServiceConfig{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logging.Logger()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	err = tree.Serve(ctx)
	tree.LogUnstopped()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
