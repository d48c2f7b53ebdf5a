// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of gateway results by kind and provenance",
		},
		[]string{"kind", "source"}, // kind: recommend, plan, classify; source: model, fallback
	)

	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallbacks_total",
			Help: "Total number of local fallbacks by reason",
		},
		[]string{"kind", "reason"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end gateway duration in seconds, including the model call",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"kind"},
	)

	// Text Generation Metrics
	TextGenRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textgen_request_duration_seconds",
			Help:    "Duration of outbound text-generation calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"outcome"}, // "success", "http_error", "transport_error"
	)

	TextGenResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textgen_responses_total",
			Help: "Total number of text-generation responses by HTTP status code",
		},
		[]string{"status_code"},
	)

	TextGenRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textgen_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
	)

	TextGenCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textgen_cache_lookups_total",
			Help: "Prompt cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "canceled"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Catalog Metrics
	CatalogEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_events",
			Help: "Current number of events in the local catalog",
		},
	)

	CatalogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Total number of catalog operations",
		},
		[]string{"operation", "result"}, // result: "success", "error", "not_found"
	)

	CatalogGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_gc_runs_total",
			Help: "Total number of value log garbage collection runs",
		},
		[]string{"result"}, // "rewritten", "nothing_to_do", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one gateway outcome. reason is empty for
// model-sourced results.
func RecordRecommendation(kind, source, reason string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(kind, source).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if reason != "" {
		RecommendationFallbacks.WithLabelValues(kind, reason).Inc()
	}
}

// RecordTextGenCall records an outbound text-generation call. statusCode is 0
// when no response was received.
func RecordTextGenCall(statusCode int, duration time.Duration, err error) {
	outcome := "success"
	switch {
	case statusCode == 0:
		outcome = "transport_error"
	case err != nil:
		outcome = "http_error"
	}
	TextGenRequestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if statusCode != 0 {
		TextGenResponses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	}
}

// RecordCatalogOperation records a catalog operation result.
func RecordCatalogOperation(operation, result string) {
	CatalogOperations.WithLabelValues(operation, result).Inc()
}
