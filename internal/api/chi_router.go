// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vidrec/internal/middleware"
)

// APIBasePath is the prefix of every versioned endpoint.
const APIBasePath = "/api/v1"

// LegacyBasePath serves the same endpoints under the unversioned paths of
// earlier clients.
const LegacyBasePath = "/api"

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(AccessLog())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	// Limiters are built once so both base paths share the same budgets.
	routes := router.apiRoutes(apiLimiters{
		health: router.chiMiddleware.RateLimitHealth(),
		api:    router.chiMiddleware.RateLimit(),
		search: router.chiMiddleware.RateLimitSearch(),
		write:  router.chiMiddleware.RateLimitWrite(),
	})
	r.Route(APIBasePath, routes)
	r.Route(LegacyBasePath, routes)

	return r
}

type apiLimiters struct {
	health, api, search, write func(http.Handler) http.Handler
}

func (router *Router) apiRoutes(limit apiLimiters) func(chi.Router) {
	h := router.handler

	return func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Route("/health", func(r chi.Router) {
			r.Use(limit.health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(limit.api)

			r.With(limit.search).Get("/search", h.Search)
			r.Get("/recommendations", h.Recommendations)
			r.Get("/watch_history", h.GetWatchHistory)

			r.Group(func(r chi.Router) {
				r.Use(limit.write)
				r.Post("/watch_history", h.AddWatchHistory)
				r.Post("/interactions", h.RecordInteraction)
			})
		})
	}
}
