// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/wayfarer/internal/imagery"
	"github.com/tomtom215/wayfarer/internal/models"
)

// defaultProbeQuery is searched when a probe names no query.
const defaultProbeQuery = "beach"

// ProbeResult is the body of POST /api/v1/imagery/probe.
type ProbeResult struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

// ImageryStatus handles GET /api/v1/imagery/status.
func (h *Handler) ImageryStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Images.Status(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeDatabase, "Failed to read image cache statistics", err)
		return
	}
	respondData(w, http.StatusOK, status, models.Metadata{})
}

// ImageryReset handles POST /api/v1/imagery/reset and clears the provider
// disable flag.
func (h *Handler) ImageryReset(w http.ResponseWriter, r *http.Request) {
	if err := h.Images.Reset(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to reset image provider", err)
		return
	}
	h.ImageryStatus(w, r)
}

// ImageryProbe handles POST /api/v1/imagery/probe?query=. The search bypasses
// the cache.
func (h *Handler) ImageryProbe(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		query = defaultProbeQuery
	}

	url, err := h.Images.Probe(r.Context(), query)
	switch {
	case errors.Is(err, imagery.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Image provider is not configured", nil)
		return
	case errors.Is(err, imagery.ErrQuota):
		respondError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "Image provider quota exhausted; provider disabled", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, codeUnavailable, "Image provider request failed", err)
		return
	}

	respondData(w, http.StatusOK, ProbeResult{Query: query, URL: url}, models.Metadata{})
}
