// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/recommend"
)

// maxRadius caps the radius query parameter, in meters.
const maxRadius = 100000

// Recommendation sources reported in metadata.
const (
	sourceLive   = "live"
	sourceStored = "stored"
)

// Recommendations handles GET /api/v1/trips/{tripID}/recommendations.
//
// Query parameters: category (nature, adventure, culture, gastronomy, all),
// limit (clamped to 1..max, malformed values take the default) and radius in
// meters. When the live pipeline returns nothing, stored destinations for the
// trip's city or country are served instead.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	trip := h.tripFromRequest(w, r)
	if trip == nil {
		return
	}

	limit := clamp(getIntParam(r, "limit", h.cfg.DefaultLimit), 1, h.cfg.MaxLimit)
	radius := getIntParam(r, "radius", h.cfg.Radius)
	if radius <= 0 {
		radius = h.cfg.Radius
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))

	places, err := h.Recommender.Recommend(r.Context(), trip, recommend.Options{
		Category: category,
		Radius:   radius,
		Limit:    limit,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to build recommendations", err)
		return
	}

	source := sourceLive
	if len(places) == 0 && h.Stored != nil {
		stored, err := recommend.Fallback(r.Context(), h.Stored, trip, category, limit)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Int64("trip_id", trip.ID).Msg("Stored destination fallback failed")
		} else if len(stored) > 0 {
			places = stored
			source = sourceStored
		}
	}

	respondData(w, http.StatusOK, places, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       len(places),
		Source:      source,
	})
}

// GroupAnalysis handles GET /api/v1/trips/{tripID}/group-analysis.
func (h *Handler) GroupAnalysis(w http.ResponseWriter, r *http.Request) {
	trip := h.tripFromRequest(w, r)
	if trip == nil {
		return
	}

	analysis, err := h.Recommender.Analyze(r.Context(), trip)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to analyze group preferences", err)
		return
	}
	respondData(w, http.StatusOK, analysis, models.Metadata{Count: analysis.MemberCount})
}
