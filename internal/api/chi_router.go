// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/wayfarer/internal/middleware"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = 2 * time.Second

// Authenticator wraps handlers that require a caller.
type Authenticator interface {
	Authenticate(next http.Handler) http.Handler
}

// NewRouter builds the chi router.
//
// Middleware order: request id, real ip, panic recovery, metrics, access log
// and CORS apply to every route. Authentication and rate limiting apply to the
// /api/v1 routes other than health.
func NewRouter(h *Handler, authn Authenticator, mwCfg *ChiMiddlewareConfig) chi.Router {
	chiMw := NewChiMiddleware(mwCfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(chiMw.CORS())

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(chiMw.RateLimit())
			r.Use(authn.Authenticate)

			r.Route("/trips/{tripID}", func(r chi.Router) {
				r.Get("/recommendations", h.Recommendations)
				r.Get("/group-analysis", h.GroupAnalysis)
				r.Get("/saved-destinations", h.ListSavedDestinations)
				r.Post("/saved-destinations", h.SaveDestination)
			})

			r.Get("/buddies/matches", h.BuddyMatches)

			r.Route("/imagery", func(r chi.Router) {
				r.Get("/status", h.ImageryStatus)
				r.Post("/reset", h.ImageryReset)
				r.Post("/probe", h.ImageryProbe)
			})
		})
	})

	return r
}
