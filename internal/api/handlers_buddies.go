// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"

	"github.com/tomtom215/wayfarer/internal/models"
)

const (
	defaultBuddyLimit = 10
	maxBuddyLimit     = 50
	defaultMinScore   = 50.0
)

// BuddyMatches handles GET /api/v1/buddies/matches?limit=&min_score=.
func (h *Handler) BuddyMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	limit := clamp(getIntParam(r, "limit", defaultBuddyLimit), 1, maxBuddyLimit)
	minScore := getFloatParam(r, "min_score", defaultMinScore)
	if minScore < 0 || minScore > 100 {
		respondError(w, http.StatusBadRequest, codeValidation, "min_score must be between 0 and 100", nil)
		return
	}

	matches, err := h.Buddies.Matches(r.Context(), userID, limit, minScore)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to compute matches", err)
		return
	}
	if matches == nil {
		matches = []models.BuddyMatch{}
	}
	respondData(w, http.StatusOK, matches, models.Metadata{Count: len(matches)})
}
