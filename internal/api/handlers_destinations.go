// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/wayfarer/internal/destinations"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/validation"
)

// ListSavedDestinations handles GET /api/v1/trips/{tripID}/saved-destinations.
func (h *Handler) ListSavedDestinations(w http.ResponseWriter, r *http.Request) {
	trip := h.tripFromRequest(w, r)
	if trip == nil {
		return
	}

	saved, err := h.Destinations.ListSaved(r.Context(), trip.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to list saved destinations", err)
		return
	}
	if saved == nil {
		saved = []models.SavedDestination{}
	}
	respondData(w, http.StatusOK, saved, models.Metadata{Count: len(saved)})
}

// SaveDestination handles POST /api/v1/trips/{tripID}/saved-destinations.
//
// The body either carries a recommendation (xid, name, category, ...) or the
// destination_id of a stored destination. Saving the same destination twice
// answers 400.
func (h *Handler) SaveDestination(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	trip := h.tripFromRequest(w, r)
	if trip == nil {
		return
	}

	var req destinations.SaveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	saved, err := h.Destinations.Save(r.Context(), trip, userID, req)
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		case errors.Is(err, destinations.ErrAlreadySaved):
			respondError(w, http.StatusBadRequest, codeConflict, "Destination already saved for this trip.", nil)
		case errors.Is(err, destinations.ErrDestinationNotFound):
			respondError(w, http.StatusNotFound, codeNotFound, "Destination not found", nil)
		default:
			respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to save destination", err)
		}
		return
	}

	respondData(w, http.StatusCreated, saved, models.Metadata{})
}
