// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meettm/internal/logging"
	"github.com/tomtom215/meettm/internal/metrics"
)

// Generator produces free-form text for a prompt. Implementations perform one
// outbound call per invocation and must honor ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Gateway defaults.
const (
	DefaultMaxResults          = 8
	DefaultTimeout             = 8 * time.Second
	DefaultMaxPromptCandidates = 50
)

// GatewayConfig holds the gateway tunables. Zero values take the defaults.
type GatewayConfig struct {
	// MaxResults caps every result list; a request may ask for fewer.
	MaxResults int

	// Timeout bounds the single model call, layered on the caller's context.
	Timeout time.Duration

	// MaxPromptCandidates limits how many candidate lines go into a prompt.
	MaxPromptCandidates int
}

func (c *GatewayConfig) applyDefaults() {
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxPromptCandidates <= 0 {
		c.MaxPromptCandidates = DefaultMaxPromptCandidates
	}
}

// Request kinds, used as metric labels.
const (
	KindRecommend = "recommend"
	KindPlan      = "plan"
	KindClassify  = "classify"
)

// gatewayState names the per-request states for debug logging.
type gatewayState string

const (
	stateBuildingPrompt  gatewayState = "building_prompt"
	stateCallingModel    gatewayState = "calling_model"
	stateParsingResponse gatewayState = "parsing_response"
	stateSuccess         gatewayState = "success"
	stateFallback        gatewayState = "fallback"
)

// Gateway asks a text-generation model for recommendations and falls back to
// the local recommender whenever the model is unavailable or its output is
// unusable. It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	gen    Generator
	cfg    GatewayConfig
	logger zerolog.Logger
}

// NewGateway creates a gateway around gen.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGateway(gen Generator, cfg GatewayConfig, logger zerolog.Logger) (*Gateway, error) {
	if gen == nil {
		return nil, errors.New("recommend: generator is required")
	}
	cfg.applyDefaults()
	return &Gateway{
		gen:    gen,
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the effective configuration.
func (g *Gateway) Config() GatewayConfig {
	return g.cfg
}

// Recommend returns recommended event ids. Model failures never surface as
// errors: the result carries ProvenanceFallback and the local ranking instead.
// Only a nil interaction list yields ErrInvalidRequest.
func (g *Gateway) Recommend(ctx context.Context, req RecommendRequest) (*Result, error) {
	if req.Interactions == nil {
		return nil, fmt.Errorf("%w: interactions must be a list", ErrInvalidRequest)
	}
	// A requested size may shrink the result but never exceed the configured cap.
	limit := g.cfg.MaxResults
	if req.MaxResults > 0 {
		limit = min(req.MaxResults, g.cfg.MaxResults)
	}

	start := time.Now()
	logger := g.requestLogger(ctx, KindRecommend)

	logger.Debug().Str("state", string(stateBuildingPrompt)).
		Int("interactions", len(req.Interactions)).
		Int("candidates", len(req.Candidates)).
		Int("limit", limit).
		Msg("recommendation state")
	prompt := BuildPrompt(req.Interactions, req.Candidates, limit, g.cfg.MaxPromptCandidates)

	text, err := g.callModel(ctx, &logger, prompt)
	if err != nil {
		res := g.recommendFallback(&logger, req, limit, ReasonUpstreamUnavailable, err)
		metrics.RecordRecommendation(KindRecommend, string(res.Provenance), string(res.Reason), time.Since(start))
		return res, nil
	}

	logger.Debug().Str("state", string(stateParsingResponse)).Int("text_length", len(text)).Msg("recommendation state")
	ids, err := ParseRecommendedIDs(text)
	if err != nil {
		res := g.recommendFallback(&logger, req, limit, ReasonUnparsableOutput, err)
		metrics.RecordRecommendation(KindRecommend, string(res.Provenance), string(res.Reason), time.Since(start))
		return res, nil
	}

	res := &Result{
		IDs:        dedupTruncate(ids, limit),
		Provenance: ProvenanceModel,
	}
	logger.Debug().Str("state", string(stateSuccess)).
		Int("proposed", len(ids)).
		Int("returned", len(res.IDs)).
		Msg("recommendation state")
	metrics.RecordRecommendation(KindRecommend, string(res.Provenance), "", time.Since(start))
	return res, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (g *Gateway) recommendFallback(logger *zerolog.Logger, req RecommendRequest, limit int, reason FallbackReason, cause error) *Result {
	ids := FallbackIDs(req.Candidates, req.Interactions, limit)
	logger.Warn().Err(cause).
		Str("state", string(stateFallback)).
		Str("reason", string(reason)).
		Int("returned", len(ids)).
		Msg("model recommendation failed, using local fallback")
	return &Result{
		IDs:        ids,
		Provenance: ProvenanceFallback,
		Reason:     reason,
		Err:        cause,
	}
}

// callModel performs the single bounded model call.
func (g *Gateway) callModel(ctx context.Context, logger *zerolog.Logger, prompt string) (string, error) {
	logger.Debug().Str("state", string(stateCallingModel)).
		Int("prompt_length", len(prompt)).
		Dur("timeout", g.cfg.Timeout).
		Msg("recommendation state")

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := g.gen.Generate(callCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return text, nil
}

func (g *Gateway) requestLogger(ctx context.Context, kind string) zerolog.Logger {
	logCtx := g.logger.With().Str("kind", kind)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	return logCtx.Logger()
}

// ParseRecommendedIDs extracts an id list from model text. Accepted shapes, in
// order: a bare array, or an object holding an array under "recommendedIds" or
// "ids". An object without either key falls through to the outermost array
// span of the raw text.
func ParseRecommendedIDs(text string) ([]string, error) {
	v, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object or array found", ErrUnparsableOutput)
	}

	switch payload := v.(type) {
	case []any:
		return idList(payload), nil
	case map[string]any:
		for _, key := range []string{"recommendedIds", "ids"} {
			if arr, ok := payload[key].([]any); ok {
				return idList(arr), nil
			}
		}
	}

	if arr, ok := parseSpan(text, '[', ']'); ok {
		if items, ok := arr.([]any); ok {
			return idList(items), nil
		}
	}
	return nil, fmt.Errorf("%w: no id list in model output", ErrUnparsableOutput)
}

// Classification is the outcome of Gateway.Classify.
type Classification struct {
	Category   Category       `json:"categorie"`
	Provenance Provenance     `json:"source"`
	Reason     FallbackReason `json:"fallbackReason,omitempty"`
	Err        error          `json:"-"`
}

// Classify asks the model which category a free-text event report belongs to.
// Any model failure yields CategoryOther with ProvenanceFallback.
func (g *Gateway) Classify(ctx context.Context, text string) (*Classification, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}

	start := time.Now()
	logger := g.requestLogger(ctx, KindClassify)
	logger.Debug().Str("state", string(stateBuildingPrompt)).Msg("classification state")

	fallback := func(reason FallbackReason, cause error) *Classification {
		logger.Warn().Err(cause).
			Str("state", string(stateFallback)).
			Str("reason", string(reason)).
			Msg("model classification failed, using Other")
		metrics.RecordRecommendation(KindClassify, string(ProvenanceFallback), string(reason), time.Since(start))
		return &Classification{Category: CategoryOther, Provenance: ProvenanceFallback, Reason: reason, Err: cause}
	}

	out, err := g.callModel(ctx, &logger, BuildClassifyPrompt(text))
	if err != nil {
		return fallback(ReasonUpstreamUnavailable, err), nil
	}

	logger.Debug().Str("state", string(stateParsingResponse)).Msg("classification state")
	category, err := parseCategory(out)
	if err != nil {
		return fallback(ReasonUnparsableOutput, err), nil
	}

	logger.Debug().Str("state", string(stateSuccess)).Str("category", string(category)).Msg("classification state")
	metrics.RecordRecommendation(KindClassify, string(ProvenanceModel), "", time.Since(start))
	return &Classification{Category: category, Provenance: ProvenanceModel}, nil
}

// parseCategory accepts {"categorie": "..."} or {"category": "..."}.
func parseCategory(text string) (Category, error) {
	v, ok := ExtractJSON(text)
	if !ok {
		return "", fmt.Errorf("%w: no JSON object found", ErrUnparsableOutput)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: expected an object", ErrUnparsableOutput)
	}
	for _, key := range []string{"categorie", "category"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return NormalizeCategory(s), nil
		}
	}
	return "", fmt.Errorf("%w: no category field", ErrUnparsableOutput)
}
