// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry through promauto at package
init and exposed by the API router at /metrics.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint (chi route pattern), status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Recommendation Metrics:
  - recommendations_total: Gateway results (counter)
    Labels: kind (recommend, plan, classify), source (model, fallback)
  - recommendation_fallbacks_total: Local fallbacks (counter)
    Labels: kind, reason (upstream_unavailable, unparsable_output)
  - recommendation_duration_seconds: End-to-end gateway latency (histogram)
    Labels: kind

Text Generation Metrics:
  - textgen_request_duration_seconds: Outbound call latency (histogram)
    Labels: outcome (success, http_error, transport_error)
  - textgen_responses_total: Upstream responses (counter)
    Labels: status_code
  - textgen_rate_limit_wait_seconds: Time spent in the outbound limiter (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected, canceled)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Catalog Metrics:
  - catalog_events: Events in the local catalog (gauge)
  - catalog_operations_total: Catalog operations (counter)
    Labels: operation, result
  - catalog_gc_runs_total: Value log GC runs (counter)
    Labels: result

# Example PromQL

	# Share of recommendations served by the fallback
	sum(rate(recommendations_total{source="fallback"}[5m])) / sum(rate(recommendations_total[5m]))

	# p95 model latency
	histogram_quantile(0.95, rate(textgen_request_duration_seconds_bucket[5m]))
*/
package metrics
