// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package middleware provides the HTTP middleware MeetTM mounts on its chi
router, next to the chi, cors and httprate middleware wired in package api.

Components:

  - RequestID: X-Request-ID propagation into chi and logging contexts
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern
  - AccessLog: one structured line per request, warn on 5xx and slow requests

Order matters: RequestID must run before AccessLog so access lines carry the
request id, and both metrics and access logging read the route pattern after
the router has dispatched.

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(0))
*/
package middleware
