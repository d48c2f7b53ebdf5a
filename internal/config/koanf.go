// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/meettm/config.yaml",
	"/etc/meettm/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultTextGenBaseURL is the hosted generateText endpoint.
const DefaultTextGenBaseURL = "https://generativelanguage.googleapis.com/v1beta2/models/text-bison-001:generateText"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            4123,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    128 << 10, // 128KiB
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		TextGen: TextGenConfig{
			BaseURL:           DefaultTextGenBaseURL,
			Temperature:       0.1,
			MaxOutputTokens:   256,
			RequestsPerMinute: 0,
			HTTPTimeout:       30 * time.Second,
			BreakerTimeout:    time.Minute,
			CacheSize:         256,
			CacheTTL:          2 * time.Minute,
		},
		Recommend: RecommendConfig{
			MaxResults:          8,
			Timeout:             8 * time.Second,
			MaxPromptCandidates: 50,
			HypePreset:          "strict",
		},
		Catalog: CatalogConfig{
			Path:       "/data/catalog",
			InMemory:   false,
			SyncWrites: false,
			GCInterval: 10 * time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"port":                  "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Text generation mappings
	"textgen_base_url":            "textgen.base_url",
	"google_api_key":              "textgen.api_key",
	"google_oauth_bearer":         "textgen.bearer_token",
	"textgen_temperature":         "textgen.temperature",
	"textgen_max_output_tokens":   "textgen.max_output_tokens",
	"textgen_requests_per_minute": "textgen.requests_per_minute",
	"textgen_http_timeout":        "textgen.http_timeout",
	"textgen_breaker_timeout":     "textgen.breaker_timeout",
	"textgen_cache_size":          "textgen.cache_size",
	"textgen_cache_ttl":           "textgen.cache_ttl",

	// Recommendation mappings
	"max_recommendations":             "recommend.max_results",
	"recommend_timeout":               "recommend.timeout",
	"recommend_max_prompt_candidates": "recommend.max_prompt_candidates",
	"hype_preset":                     "recommend.hype_preset",

	// Catalog mappings
	"catalog_path":        "catalog.path",
	"catalog_in_memory":   "catalog.in_memory",
	"catalog_sync_writes": "catalog.sync_writes",
	"catalog_gc_interval": "catalog.gc_interval",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped.
//
// PORT is honoured only when HTTP_PORT is unset, so the result does not depend
// on environment iteration order.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if key == "port" && os.Getenv("HTTP_PORT") != "" {
		return ""
	}

	return envMappings[key]
}
