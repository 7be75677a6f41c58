// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/gatherlens/internal/middleware"
)

// RouterConfig holds the middleware knobs of the HTTP surface.
type RouterConfig struct {
	CORSAllowedOrigins []string

	// RateLimitRequests caps requests per client IP per minute on the
	// analytics endpoint; health endpoints get a permissive multiple.
	RateLimitRequests int
	RateLimitDisabled bool
}

// DefaultRouterConfig returns the default middleware configuration. CORS
// origins default to empty and require explicit configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSAllowedOrigins: []string{},
		RateLimitRequests:  100,
	}
}

// Router assembles the chi handler tree.
type Router struct {
	handler *Handler
	config  RouterConfig
}

// NewRouter creates a router serving the given handler.
func NewRouter(handler *Handler, config RouterConfig) *Router {
	return &Router{handler: handler, config: config}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// rateLimit builds an IP-keyed limiter for the given per-minute budget.
func (router *Router) rateLimit(requests int) func(http.Handler) http.Handler {
	if router.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.LimitByIP(requests, time.Minute)
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.rateLimit(router.config.RateLimitRequests * 10))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(router.rateLimit(router.config.RateLimitRequests))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/", router.handler.Analytics)
	})

	r.Route("/api/v1/sync", func(r chi.Router) {
		r.Use(router.rateLimit(router.config.RateLimitRequests))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Post("/", router.handler.TriggerSync)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
