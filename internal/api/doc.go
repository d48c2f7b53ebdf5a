// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package api provides the HTTP layer of MeetTM.

Routes:

Mobile client endpoints (bare JSON bodies, compatible with the existing app):

  - POST /api/recommendations: ranked event ids for a viewer history
  - POST /api/plan-night: a two-stop night plan within a budget
  - POST /api/classify: category suggestion for free text
  - GET /health: liveness, always {"ok":true}

Catalog and operational endpoints (enveloped with success/data/error/meta):

  - GET /api/v1/health/live, GET /api/v1/health/ready
  - GET /api/v1/events: every mirrored event with its hype result
  - PUT /api/v1/events: upsert a JSON array of events
  - GET /api/v1/events/trending?limit=N: events ranked by hype (default 10, max 100)
  - GET /api/v1/events/{id}/hype
  - DELETE /api/v1/events/{id}
  - GET /metrics: Prometheus exposition

Status codes of the model-backed endpoints:

  - 200: the model answered and its output parsed
  - 400: the body is malformed or fails validation
  - 413: the body exceeds the configured limit
  - 503: the model was unavailable or unparsable; the local fallback result
    is returned under fallbackIds or fallbackPlan, and the primary field is
    empty so older clients still run their own fallback
  - 500: anything else

Classification always answers 200, using "Other" when the model fails.

Middleware order: request id, real IP, panic recovery, Prometheus metrics,
access log, CORS, body limit, gzip. Rate limits (go-chi/httprate, keyed by
IP) and security headers are applied per route group.
*/
package api
