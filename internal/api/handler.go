// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/meettm/internal/catalog"
	"github.com/tomtom215/meettm/internal/hype"
	"github.com/tomtom215/meettm/internal/recommend"
)

// Recommender is the gateway surface the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.RecommendRequest) (*recommend.Result, error)
	PlanNight(ctx context.Context, candidates []recommend.Event, req recommend.PlanRequest) (*recommend.Plan, error)
	Classify(ctx context.Context, text string) (*recommend.Classification, error)
}

// EventCatalog is the catalog surface the handlers need.
type EventCatalog interface {
	List(ctx context.Context) ([]recommend.Event, error)
	Get(ctx context.Context, id string) (*recommend.Event, error)
	PutMany(ctx context.Context, events []recommend.Event) (int, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Trending(ctx context.Context, now time.Time, scorer *hype.Scorer, limit int) ([]catalog.Ranked, error)
}

// Handler serves the MeetTM HTTP API.
type Handler struct {
	recommender Recommender
	catalog     EventCatalog
	scorer      *hype.Scorer
	now         func() time.Time
	startTime   time.Time
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithClock replaces the wall clock used for hype scoring.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler wires the handlers. The catalog may be nil, in which case
// requests without inline candidates see an empty candidate set and the
// /api/v1/events routes report the catalog as unavailable.
func NewHandler(rec Recommender, cat EventCatalog, scorer *hype.Scorer, opts ...HandlerOption) (*Handler, error) {
	if rec == nil {
		return nil, errors.New("api: recommender is required")
	}
	if scorer == nil {
		return nil, errors.New("api: hype scorer is required")
	}
	h := &Handler{
		recommender: rec,
		catalog:     cat,
		scorer:      scorer,
		now:         time.Now,
		startTime:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// candidates returns the catalog contents, or an empty set without a catalog.
func (h *Handler) candidates(ctx context.Context) ([]recommend.Event, error) {
	if h.catalog == nil {
		return []recommend.Event{}, nil
	}
	return h.catalog.List(ctx)
}
