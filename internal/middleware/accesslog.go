// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/meettm/internal/logging"
)

// DefaultSlowRequestThreshold marks a request as slow. Model calls are bounded
// by an 8s timeout, so anything past this is worth a warning.
const DefaultSlowRequestThreshold = 5 * time.Second

// AccessLog logs one line per request through the request-scoped logger:
// debug for fast successful requests, warn for slow ones and for 5xx.
// A threshold <= 0 uses DefaultSlowRequestThreshold.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := statusOf(ww)
			logger := logging.Ctx(r.Context())

			event := logger.Debug()
			msg := "request completed"
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Warn()
				msg = "request failed"
			case duration > slowThreshold:
				event = logger.Warn()
				msg = "slow request"
			}
			event.
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", duration).
				Msg(msg)
		})
	}
}
