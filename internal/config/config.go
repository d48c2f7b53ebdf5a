// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	TextGen   TextGenConfig   `koanf:"textgen"`
	Recommend RecommendConfig `koanf:"recommend"`
	Catalog   CatalogConfig   `koanf:"catalog"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // read/write timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful drain
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`   // request body cap
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds CORS and inbound rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// TextGenConfig holds the outbound text-generation API settings.
//
// Exactly one of APIKey or BearerToken authenticates requests. With neither,
// the service still starts and every model call falls back locally.
type TextGenConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	BearerToken       string        `koanf:"bearer_token"`
	Temperature       float64       `koanf:"temperature"`
	MaxOutputTokens   int           `koanf:"max_output_tokens"`
	RequestsPerMinute int           `koanf:"requests_per_minute"` // 0 = unlimited
	HTTPTimeout       time.Duration `koanf:"http_timeout"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout"` // open period before probing again

	// CacheSize bounds the prompt cache; 0 disables it.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// Configured reports whether credentials are present.
func (t TextGenConfig) Configured() bool {
	return strings.TrimSpace(t.APIKey) != "" || strings.TrimSpace(t.BearerToken) != ""
}

// RecommendConfig holds gateway and hype settings.
type RecommendConfig struct {
	// MaxResults caps recommendation lists. Default: 8
	MaxResults int `koanf:"max_results"`

	// Timeout bounds one model call, on top of the request context. Default: 8s
	Timeout time.Duration `koanf:"timeout"`

	// MaxPromptCandidates caps the candidate block of a prompt. Default: 50
	MaxPromptCandidates int `koanf:"max_prompt_candidates"`

	// HypePreset selects the label thresholds: strict (15/5) or relaxed (5/2).
	// Default: strict
	HypePreset string `koanf:"hype_preset"`
}

// CatalogConfig holds the local event catalog settings.
type CatalogConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing priority, and validates the result.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
