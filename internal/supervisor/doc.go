// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package supervisor runs the long-lived MeetTM services under a suture v4 tree.

# Layout

	meettm
	├── data-layer
	│   └── CatalogGCService (badger value log GC)
	└── api-layer
	    └── HTTPServerService

Each layer restarts its own services. A catalog GC crash loop backs off
inside data-layer while the HTTP server keeps answering.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCatalogGCService(store, gcCfg, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(srv, httpCfg, logging.Logger()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
	tree.LogUnstopped()

# Restart policy

Failures feed a counter that decays over FailureDecay seconds. Once it
exceeds FailureThreshold the supervisor waits FailureBackoff before the next
restart. Defaults are suture's own: 5 failures, 30s decay, 15s backoff, and
10s per-service shutdown timeout.

A service that returns nil is not restarted. Returning an error, or
panicking, triggers a restart.

# Logging

Suture events go through sutureslog into the zerolog-backed slog handler,
so restarts and backoffs appear in the same JSON stream as request logs.

The event catalog itself is an embedded badger database, not a service. It
is opened before the tree starts and closed after Serve returns.
*/
package supervisor
