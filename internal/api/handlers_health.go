// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"net/http"
	"time"
)

type healthBody struct {
	OK bool `json:"ok"`
}

// ReadinessStatus is the body of GET /api/v1/health/ready.
type ReadinessStatus struct {
	Ready         bool    `json:"ready"`
	CatalogEvents int     `json:"catalog_events"`
	Uptime        float64 `json:"uptime_seconds"`
	Error         string  `json:"error,omitempty"`
}

// Health handles GET /health. It only proves the process serves requests.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{OK: true})
}

// Ready handles GET /api/v1/health/ready. The service is ready once the
// catalog answers; without a catalog it is ready immediately.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := ReadinessStatus{
		Ready:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	}

	if h.catalog != nil {
		n, err := h.catalog.Count(r.Context())
		if err != nil {
			status.Ready = false
			status.Error = err.Error()
			rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Catalog is not ready", status)
			return
		}
		status.CatalogEvents = n
	}
	rw.Success(status)
}
