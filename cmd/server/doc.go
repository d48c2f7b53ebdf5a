// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package main is the entry point for the MeetTM server.

MeetTM ranks local events by "hype", asks a hosted text-generation model for
personalised recommendations and night plans, and falls back to a local
ranking whenever the model is unavailable or answers with something that is
not usable.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("meettm")
	├── DataSupervisor ("data-layer")
	│   └── Catalog GC (BadgerDB value-log collection)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog, with slog bridged for the supervisor
 3. Hype scorer: threshold preset from HYPE_PRESET
 4. Catalog: BadgerDB store (on disk or in memory)
 5. Text generation: HTTP client, rate limiter, circuit breaker and prompt cache
 6. Recommendation gateway
 7. HTTP router: chi with the middleware stack
 8. Supervisor tree

# Configuration

Environment variables take precedence over the config file (CONFIG_PATH or
./config.yaml):

	HTTP_PORT / PORT        listen port (HTTP_PORT wins), default 4123
	HTTP_HOST               listen host, default 0.0.0.0
	GOOGLE_API_KEY          model API key
	GOOGLE_OAUTH_BEARER     model bearer token (alternative to the key)
	TEXTGEN_BASE_URL        model endpoint base URL
	MAX_RECOMMENDATIONS     default result count, default 8
	RECOMMEND_TIMEOUT       per model call timeout, default 8s
	TEXTGEN_CACHE_SIZE      prompt cache entries (0 disables), default 256
	HYPE_PRESET             strict or relaxed
	CATALOG_PATH            BadgerDB directory
	CATALOG_IN_MEMORY       keep the catalog in memory only
	CORS_ORIGINS            comma-separated allowed origins
	LOG_LEVEL / LOG_FORMAT  zerolog level and json|console

Without model credentials the server still starts; every recommendation and
plan request answers from the local fallback with a 503 status.

# Shutdown

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT, the catalog is closed last,
and services that did not stop in time are logged by name.
*/
package main
