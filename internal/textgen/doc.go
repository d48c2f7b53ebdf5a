// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package textgen is the outbound client for the hosted text-generation API.

The recommendation gateway depends only on a Generate(ctx, prompt) capability;
this package supplies it:

  - Client: one POST per call with {"prompt":{"text":...},"temperature":...,
    "maxOutputTokens":...}, authenticated by exactly one of a ?key= query
    parameter or an Authorization: Bearer header. Optional per-minute rate
    limiting through golang.org/x/time/rate.
  - ResponseText: probes the known response shapes for the generated text and
    falls back to the raw body.
  - BreakerClient: sony/gobreaker/v2 circuit breaker. Opens at 60% failures
    over at least 10 requests in a one-minute window, probes after one minute.
  - CachedGenerator: LRU prompt cache (internal/cache) keyed by the SHA-256
    of the prompt. Failures and blank answers are never stored.

Non-2xx responses surface as *StatusError. Transport errors are wrapped with
the API key masked. Every call is recorded in the textgen_* and
circuit_breaker_* metrics.

Usage:

	client, err := textgen.NewClient(textgen.Config{APIKey: key})
	if err != nil {
		return err
	}
	gen := textgen.NewBreakerClient(client, textgen.DefaultBreakerConfig())
	gateway, err := recommend.NewGateway(gen, recommend.GatewayConfig{}, logger)
*/
package textgen
