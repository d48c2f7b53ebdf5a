// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/meettm/internal/middleware"
)

// DefaultMaxBodyBytes caps request bodies when RouterConfig leaves it unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// RouterConfig holds the settings the router needs beyond the handler.
type RouterConfig struct {
	MaxBodyBytes         int64
	SlowRequestThreshold time.Duration
	Middleware           *ChiMiddlewareConfig
}

// Router sets up the HTTP routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a router for h.
func NewRouter(h *Handler, cfg RouterConfig) *Router {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = middleware.DefaultSlowRequestThreshold
	}
	return &Router{
		handler:       h,
		chiMiddleware: NewChiMiddleware(cfg.Middleware),
		config:        cfg,
	}
}

// SetupChi builds the chi router with every route registered.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(router.config.SlowRequestThreshold))
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflights are answered
	r.Use(MaxBodyBytes(router.config.MaxBodyBytes))
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	})

	// ========================
	// Health Endpoints
	// ========================
	// Permissive limit so monitoring can poll freely.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/health", router.handler.Health)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth))
			r.Use(APISecurityHeaders())
			r.Get("/v1/health/live", router.handler.Health)
			r.Get("/v1/health/ready", router.handler.Ready)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("api"))
			r.Use(APISecurityHeaders())

			// ========================
			// Mobile Client Endpoints
			// ========================
			// Bare bodies, kept compatible with the existing app.
			r.Post("/recommendations", router.handler.Recommendations)
			r.Post("/plan-night", router.handler.PlanNight)
			r.Post("/classify", router.handler.Classify)

			// ========================
			// Catalog Endpoints
			// ========================
			r.Get("/v1/events", router.handler.ListEvents)
			r.Put("/v1/events", router.handler.PutEvents)
			r.Get("/v1/events/trending", router.handler.TrendingEvents)
			r.Get("/v1/events/{id}/hype", router.handler.EventHype)
			r.Delete("/v1/events/{id}", router.handler.DeleteEvent)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
