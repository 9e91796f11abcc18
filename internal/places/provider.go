// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package places finds points of interest around a location and enriches
// them with descriptive detail.
//
// Providers are tried in order by Source; the first one that returns any
// candidates wins. OpenTripMap is the primary provider and the only one with
// a detail endpoint. Overpass is the open-data fallback; its ids carry the
// "osm_" prefix so they never collide with OpenTripMap xids and so the
// Enricher can skip them.
package places

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// OSMPrefix marks ids synthesized from OpenStreetMap element ids.
const OSMPrefix = "osm_"

// Query describes a radius search.
type Query struct {
	Latitude  float64
	Longitude float64
	// Kinds is a comma-separated kind filter; empty means any.
	Kinds  string
	Radius int
	Limit  int
}

// Provider is one places backend.
type Provider interface {
	// Name returns the provider name for logging and metrics.
	Name() string

	// IsAvailable reports whether the provider is configured.
	IsAvailable() bool

	// ByRadius returns candidates near the query point. An empty slice with
	// nil error means the provider had nothing.
	ByRadius(ctx context.Context, q Query) ([]models.PlaceCandidate, error)
}

// IsOSM reports whether xid was synthesized by the Overpass provider.
func IsOSM(xid string) bool {
	return strings.HasPrefix(xid, OSMPrefix)
}

// Source queries providers in order and returns the first non-empty result.
type Source struct {
	providers []Provider
}

// NewSource creates a Source over providers, highest priority first.
func NewSource(providers ...Provider) *Source {
	return &Source{providers: providers}
}

// ByRadius never fails: provider errors are logged and treated as empty.
func (s *Source) ByRadius(ctx context.Context, q Query) []models.PlaceCandidate {
	return firstNonEmpty(ctx, s.providers, func(p Provider) ([]models.PlaceCandidate, error) {
		return p.ByRadius(ctx, q)
	})
}

// firstNonEmpty folds over providers, stopping at the first that yields
// candidates.
func firstNonEmpty(ctx context.Context, providers []Provider, call func(Provider) ([]models.PlaceCandidate, error)) []models.PlaceCandidate {
	for _, p := range providers {
		if !p.IsAvailable() {
			continue
		}

		start := time.Now()
		results, err := call(p)
		switch {
		case err != nil:
			metrics.RecordProviderCall(p.Name(), "radius", "error", time.Since(start))
			logging.Ctx(ctx).Warn().Err(err).Str("provider", p.Name()).Msg("Places provider failed")
			continue
		case len(results) == 0:
			metrics.RecordProviderCall(p.Name(), "radius", "empty", time.Since(start))
			logging.Ctx(ctx).Info().Str("provider", p.Name()).Msg("Places provider returned no results")
			continue
		}

		metrics.RecordProviderCall(p.Name(), "radius", "ok", time.Since(start))
		logging.Ctx(ctx).Debug().Str("provider", p.Name()).Int("count", len(results)).Msg("Places found")
		return results
	}
	return []models.PlaceCandidate{}
}
