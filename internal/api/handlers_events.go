// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/meettm/internal/catalog"
	"github.com/tomtom215/meettm/internal/recommend"
)

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 100
)

type putEventsResponse struct {
	Received int `json:"received"`
	Added    int `json:"added"`
}

// requireCatalog writes 503 and returns false when no catalog is wired.
func (h *Handler) requireCatalog(rw *ResponseWriter) bool {
	if h.catalog == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Event catalog is not available")
		return false
	}
	return true
}

// PutEvents handles PUT /api/v1/events. The body is a JSON array of events
// mirrored from the document store; existing ids are replaced.
func (h *Handler) PutEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.requireCatalog(rw) {
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		if isBodyTooLarge(err) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large")
			return
		}
		rw.BadRequest("Request body must be a JSON array of events")
		return
	}
	events, err := decodeArray[recommend.Event](raw)
	if err != nil {
		rw.BadRequest("Request body must be a JSON array of events")
		return
	}

	added, err := h.catalog.PutMany(r.Context(), events)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidEvent) {
			rw.ValidationError("Every event needs a non-empty id", map[string]string{"id": err.Error()})
			return
		}
		rw.InternalError(err)
		return
	}
	rw.Success(putEventsResponse{Received: len(events), Added: added})
}

// ListEvents handles GET /api/v1/events. Each event comes with its current
// hype result.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.requireCatalog(rw) {
		return
	}

	events, err := h.catalog.List(r.Context())
	if err != nil {
		rw.InternalError(err)
		return
	}
	now := h.now()
	out := make([]catalog.Ranked, len(events))
	for i := range events {
		ev := &events[i]
		out[i] = catalog.Ranked{
			Event: *ev,
			Hype:  h.scorer.Score(ev.Views, ev.Likes, ev.CreatedAt, now),
		}
	}
	rw.SuccessList(out, len(out))
}

// TrendingEvents handles GET /api/v1/events/trending?limit=N.
func (h *Handler) TrendingEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.requireCatalog(rw) {
		return
	}

	limit := defaultTrendingLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			rw.BadRequest("limit must be an integer")
			return
		}
		limit = max(1, min(n, maxTrendingLimit))
	}

	ranked, err := h.catalog.Trending(r.Context(), h.now(), h.scorer, limit)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.SuccessList(ranked, len(ranked))
}

// EventHype handles GET /api/v1/events/{id}/hype.
func (h *Handler) EventHype(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.requireCatalog(rw) {
		return
	}

	ev, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, catalog.ErrEventNotFound):
		rw.NotFound("Event not found")
		return
	case err != nil:
		rw.InternalError(err)
		return
	}
	rw.Success(catalog.Ranked{
		Event: *ev,
		Hype:  h.scorer.Score(ev.Views, ev.Likes, ev.CreatedAt, h.now()),
	})
}

// DeleteEvent handles DELETE /api/v1/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.requireCatalog(rw) {
		return
	}

	err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, catalog.ErrEventNotFound):
		rw.NotFound("Event not found")
	case err != nil:
		rw.InternalError(err)
	default:
		rw.NoContent()
	}
}
