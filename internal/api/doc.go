// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package api provides the HTTP REST API layer for Wayfarer.

Routes (all JSON, wrapped in models.APIResponse):

	GET  /api/v1/health
	GET  /api/v1/trips/{tripID}/recommendations?category=&limit=&radius=
	GET  /api/v1/trips/{tripID}/group-analysis
	GET  /api/v1/trips/{tripID}/saved-destinations
	POST /api/v1/trips/{tripID}/saved-destinations
	GET  /api/v1/buddies/matches?limit=&min_score=
	GET  /api/v1/imagery/status
	POST /api/v1/imagery/reset
	POST /api/v1/imagery/probe
	GET  /metrics

Trip routes require an authenticated caller who is the trip's creator or an
accepted member. When authentication is disabled and the request names no
caller, the membership check is skipped.

Recommendations come from the live pipeline; when it yields nothing, active
stored destinations near the trip are served instead and metadata.source is
"stored".

Usage Example:

	h := api.NewHandler(api.Deps{Trips: db, Recommender: rec, ...}, cfg.Recommend)
	handler := api.NewRouter(h, authMiddleware, api.RouterConfigFrom(cfg))
	srv := &http.Server{Addr: ":8080", Handler: handler}
*/
package api
