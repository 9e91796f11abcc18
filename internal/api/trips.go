// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wayfarer/internal/auth"
	"github.com/tomtom215/wayfarer/internal/database"
	"github.com/tomtom215/wayfarer/internal/models"
)

// tripFromRequest loads the {tripID} trip and checks that the caller may see
// it. On failure the error response has been written and nil is returned.
func (h *Handler) tripFromRequest(w http.ResponseWriter, r *http.Request) *models.Trip {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil || tripID <= 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid trip ID", nil)
		return nil
	}

	trip, err := h.Trips.GetTrip(r.Context(), tripID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "Trip not found", nil)
		return nil
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to load trip", err)
		return nil
	}

	if err := h.authorizeTrip(r, trip); err != nil {
		if errors.Is(err, errNotMember) {
			respondError(w, http.StatusForbidden, codeAuthorization, "You are not a member of this trip", nil)
		} else {
			respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to check trip membership", err)
		}
		return nil
	}
	return trip
}

// authorizeTrip admits the creator and accepted members. Anonymous callers
// are admitted only when authentication is disabled.
func (h *Handler) authorizeTrip(r *http.Request, trip *models.Trip) error {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return errNotMember
	}
	if p.UserID == 0 {
		if p.Verified {
			return errNotMember
		}
		return nil
	}

	member, err := h.Trips.IsTripMember(r.Context(), trip.ID, p.UserID)
	if err != nil {
		return fmt.Errorf("membership lookup: %w", err)
	}
	if !member {
		return errNotMember
	}
	return nil
}

// callerID returns the authenticated caller or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok || p.UserID <= 0 {
		respondError(w, http.StatusUnauthorized, codeAuthentication, "A signed-in user is required", nil)
		return 0, false
	}
	return p.UserID, true
}
