// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package middleware provides HTTP middleware shared by the API router.
//
// Order matters. The router installs them outermost first:
//
//	r.Use(middleware.RequestID)         // X-Request-ID, logging context
//	r.Use(middleware.AccessLog(time.Second))
//	r.Use(middleware.PrometheusMetrics) // labels by chi route pattern
//
// Metrics are labeled by the matched route pattern, not the raw path, so
// trip IDs do not create new series.
package middleware
