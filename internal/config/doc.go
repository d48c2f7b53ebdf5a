// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package config provides centralized configuration management for MeetTM.

# Configuration Sources

Koanf v2 merges three layers, later layers winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/meettm/config.yaml, /etc/meettm/config.yml
  - Environment variables, mapped explicitly; unknown variables are ignored

# Environment Variables

HTTP Server:
  - HTTP_PORT (or PORT): Listen port (default: 4123)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - HTTP_SHUTDOWN_TIMEOUT: Graceful drain (default: 10s)
  - HTTP_MAX_BODY_BYTES: Request body cap (default: 131072)

Security:
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
  - RATE_LIMIT_WINDOW: Window length (default: 1m)
  - DISABLE_RATE_LIMIT: Disable inbound rate limiting (default: false)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller info (default: false)

Text Generation:
  - TEXTGEN_BASE_URL: generateText endpoint (default: text-bison-001)
  - GOOGLE_API_KEY: API key sent as ?key= (exclusive with the bearer token)
  - GOOGLE_OAUTH_BEARER: OAuth bearer token
  - TEXTGEN_TEMPERATURE: Sampling temperature (default: 0.1)
  - TEXTGEN_MAX_OUTPUT_TOKENS: Output cap (default: 256)
  - TEXTGEN_REQUESTS_PER_MINUTE: Outbound throttle, 0 = off (default: 0)
  - TEXTGEN_HTTP_TIMEOUT: Transport ceiling (default: 30s)
  - TEXTGEN_BREAKER_TIMEOUT: Open-circuit period (default: 1m)

Recommendations:
  - MAX_RECOMMENDATIONS: Result cap (default: 8)
  - RECOMMEND_TIMEOUT: Model call timeout (default: 8s)
  - RECOMMEND_MAX_PROMPT_CANDIDATES: Prompt candidate cap (default: 50)
  - HYPE_PRESET: strict (15/5) or relaxed (5/2) (default: strict)

Catalog:
  - CATALOG_PATH: Badger directory (default: /data/catalog)
  - CATALOG_IN_MEMORY: Keep the catalog in memory (default: false)
  - CATALOG_SYNC_WRITES: fsync each commit (default: false)
  - CATALOG_GC_INTERVAL: Value log GC interval (default: 10m)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	server := &http.Server{Addr: cfg.Server.Addr()}
*/
package config
