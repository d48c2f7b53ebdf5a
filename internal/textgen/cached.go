// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package textgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/tomtom215/meettm/internal/cache"
	"github.com/tomtom215/meettm/internal/metrics"
)

// CacheConfig sizes the prompt cache.
type CacheConfig struct {
	Size int           // entries; <= 0 disables the cache
	TTL  time.Duration // per entry
}

// CachedGenerator answers a prompt seen within the TTL from memory. Only
// non-empty successful answers are stored, so failures are always retried.
type CachedGenerator struct {
	next  Generator
	cache *cache.LRU[string]
}

// NewCachedGenerator wraps next. With a non-positive size it returns next
// unchanged.
func NewCachedGenerator(next Generator, cfg CacheConfig, opts ...cache.Option) Generator {
	if cfg.Size <= 0 {
		return next
	}
	return &CachedGenerator{
		next:  next,
		cache: cache.NewLRU[string](cfg.Size, cfg.TTL, opts...),
	}
}

// Generate implements Generator.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if text, ok := c.cache.Get(key); ok {
		metrics.TextGenCacheLookups.WithLabelValues("hit").Inc()
		return text, nil
	}
	metrics.TextGenCacheLookups.WithLabelValues("miss").Inc()

	text, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		c.cache.Add(key, text)
	}
	return text, nil
}

// Stats exposes the underlying cache counters.
func (c *CachedGenerator) Stats() cache.Stats {
	return c.cache.Stats()
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
