// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/meettm/internal/hype"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateTextGen(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateCatalog()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxBodyBytes < 1024 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be at least 1024, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 (or set DISABLE_RATE_LIMIT=true)")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error (got %q)", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console (got %q)", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateTextGen() error {
	if strings.TrimSpace(c.TextGen.APIKey) != "" && strings.TrimSpace(c.TextGen.BearerToken) != "" {
		return fmt.Errorf("GOOGLE_API_KEY and GOOGLE_OAUTH_BEARER are mutually exclusive, set only one")
	}
	if err := validateHTTPURL(c.TextGen.BaseURL, "TEXTGEN_BASE_URL"); err != nil {
		return err
	}
	if c.TextGen.Temperature < 0 || c.TextGen.Temperature > 2 {
		return fmt.Errorf("TEXTGEN_TEMPERATURE must be between 0 and 2, got %v", c.TextGen.Temperature)
	}
	if c.TextGen.MaxOutputTokens < 1 {
		return fmt.Errorf("TEXTGEN_MAX_OUTPUT_TOKENS must be at least 1")
	}
	if c.TextGen.RequestsPerMinute < 0 {
		return fmt.Errorf("TEXTGEN_REQUESTS_PER_MINUTE must not be negative")
	}
	if c.TextGen.HTTPTimeout <= 0 || c.TextGen.BreakerTimeout <= 0 {
		return fmt.Errorf("TEXTGEN_HTTP_TIMEOUT and TEXTGEN_BREAKER_TIMEOUT must be positive")
	}
	if c.TextGen.CacheSize < 0 {
		return fmt.Errorf("TEXTGEN_CACHE_SIZE must not be negative")
	}
	if c.TextGen.CacheSize > 0 && c.TextGen.CacheTTL <= 0 {
		return fmt.Errorf("TEXTGEN_CACHE_TTL must be positive when the prompt cache is enabled")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxResults < 1 || c.Recommend.MaxResults > 100 {
		return fmt.Errorf("MAX_RECOMMENDATIONS must be between 1 and 100, got %d", c.Recommend.MaxResults)
	}
	if c.Recommend.Timeout <= 0 {
		return fmt.Errorf("RECOMMEND_TIMEOUT must be positive")
	}
	if c.Recommend.MaxPromptCandidates < 1 {
		return fmt.Errorf("RECOMMEND_MAX_PROMPT_CANDIDATES must be at least 1")
	}
	if _, err := hype.ThresholdsByName(c.Recommend.HypePreset); err != nil {
		return fmt.Errorf("HYPE_PRESET is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.InMemory && strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("CATALOG_PATH is required unless CATALOG_IN_MEMORY=true")
	}
	if c.Catalog.GCInterval <= 0 {
		return fmt.Errorf("CATALOG_GC_INTERVAL must be positive")
	}
	return nil
}

// validateHTTPURL validates that rawURL is an absolute http(s) URL.
// Paths are allowed since model endpoints carry the model name in the path.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
