// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfarer/internal/geocode"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/places"
)

const (
	// DefaultRadius is the search radius in meters.
	DefaultRadius = 30000
	// DefaultLimit is the number of places returned when none is requested.
	DefaultLimit = 30
	// DefaultMaxDetailed bounds detail fetches per request.
	DefaultMaxDetailed = 12

	maxDescriptionRunes = 300
	unknownPlaceName    = "Unknown Place"
)

// TripStore persists geocoded coordinates and loads member preferences.
type TripStore interface {
	SaveTripCoordinates(ctx context.Context, tripID int64, c models.Coordinates) error
	ListMemberPreferences(ctx context.Context, tripID int64) ([]models.MemberPreference, error)
}

// PlaceSource returns candidates near a point. It never fails.
type PlaceSource interface {
	ByRadius(ctx context.Context, q places.Query) []models.PlaceCandidate
}

// DetailEnricher attaches details to a bounded prefix of candidates.
type DetailEnricher interface {
	WithDetails(ctx context.Context, candidates []models.PlaceCandidate, maxDetailed int) []models.PlaceCandidate
}

// ImageResolver returns an image URL and source for a place. It never fails.
type ImageResolver interface {
	Resolve(ctx context.Context, name, city, country, category string) (string, string)
}

// Options are per-request parameters. Zero values take the Recommender
// defaults.
type Options struct {
	Category string
	Radius   int
	Limit    int
}

// Config holds Recommender defaults.
type Config struct {
	Radius      int
	Limit       int
	MaxDetailed int
}

// Recommender aggregates geocoding, places, details and images into
// recommendations for a trip. It is safe for concurrent use.
type Recommender struct {
	trips    TripStore
	geocoder geocode.Geocoder
	places   PlaceSource
	enricher DetailEnricher
	images   ImageResolver
	cfg      Config
	logger   zerolog.Logger
}

// New creates a Recommender.
func New(trips TripStore, geocoder geocode.Geocoder, source PlaceSource, enricher DetailEnricher, images ImageResolver, cfg Config) *Recommender {
	if cfg.Radius <= 0 {
		cfg.Radius = DefaultRadius
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.MaxDetailed <= 0 {
		cfg.MaxDetailed = DefaultMaxDetailed
	}
	return &Recommender{
		trips:    trips,
		geocoder: geocoder,
		places:   source,
		enricher: enricher,
		images:   images,
		cfg:      cfg,
		logger:   logging.WithComponent("recommend"),
	}
}

// Recommend returns up to opts.Limit unique places near the trip. The result
// is never nil. A trip whose location cannot be geocoded gets an empty list.
func (r *Recommender) Recommend(ctx context.Context, trip *models.Trip, opts Options) ([]models.RecommendedPlace, error) {
	start := time.Now()
	out := []models.RecommendedPlace{}

	radius := opts.Radius
	if radius <= 0 {
		radius = r.cfg.Radius
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = r.cfg.Limit
	}
	filter := strings.ToLower(strings.TrimSpace(opts.Category))
	if filter == models.CategoryAll {
		filter = ""
	}

	logger := r.logger.With().Int64("trip_id", trip.ID).Logger()

	coords, ok := r.ensureCoordinates(ctx, trip)
	if !ok {
		metrics.RecommendationsServed.Observe(0)
		return out, nil
	}

	kinds := r.kindsFor(ctx, trip, filter)

	candidates := r.places.ByRadius(ctx, places.Query{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Kinds:     kinds,
		Radius:    radius,
		Limit:     limit * 2,
	})
	if len(candidates) == 0 {
		logger.Info().Str("kinds", kinds).Msg("No places found near trip")
		metrics.RecommendationsServed.Observe(0)
		return out, nil
	}

	enriched := r.enricher.WithDetails(ctx, candidates, r.cfg.MaxDetailed)

	seen := make(map[string]struct{}, len(enriched))
	for i := range enriched {
		if len(out) >= limit {
			break
		}
		c := &enriched[i]
		if c.XID == "" {
			continue
		}
		if _, dup := seen[c.XID]; dup {
			continue
		}
		seen[c.XID] = struct{}{}

		category := Categorize(c.Kinds)
		if !matchesFilter(category, filter) {
			continue
		}
		out = append(out, r.format(ctx, trip, c, category))
	}

	metrics.RecommendationsServed.Observe(float64(len(out)))
	logger.Debug().
		Str("kinds", kinds).
		Int("candidates", len(candidates)).
		Int("returned", len(out)).
		Dur("took", time.Since(start)).
		Msg("Recommendations built")
	return out, nil
}

// ensureCoordinates returns the trip's coordinates, geocoding and persisting
// them on first use. Stored coordinates are never re-resolved.
func (r *Recommender) ensureCoordinates(ctx context.Context, trip *models.Trip) (models.Coordinates, bool) {
	if trip.HasCoordinates() {
		return trip.Coordinates(), true
	}

	c, err := r.geocoder.Resolve(ctx, trip.City, trip.Region, trip.Country)
	if err != nil {
		r.logger.Warn().
			Int64("trip_id", trip.ID).
			Str("city", trip.City).
			Str("country", trip.Country).
			Msg("Could not geocode trip")
		return models.Coordinates{}, false
	}

	trip.SetCoordinates(c)
	if err := r.trips.SaveTripCoordinates(ctx, trip.ID, c); err != nil {
		r.logger.Error().Err(err).Int64("trip_id", trip.ID).Msg("Failed to persist trip coordinates")
	} else {
		r.logger.Info().
			Int64("trip_id", trip.ID).
			Float64("lat", c.Latitude).
			Float64("lon", c.Longitude).
			Msg("Saved trip coordinates")
	}
	return c, true
}

// kindsFor picks the provider kinds: from a known category filter, else from
// the group's dominant interests. When member preferences cannot be loaded
// the search runs unfiltered.
func (r *Recommender) kindsFor(ctx context.Context, trip *models.Trip, filter string) string {
	if filter != "" {
		if kinds, ok := KindsForCategory(filter); ok {
			return kinds
		}
	}

	members, err := r.trips.ListMemberPreferences(ctx, trip.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("trip_id", trip.ID).
			Msg("Failed to load member preferences, searching without kinds")
		return ""
	}
	ranked := DominantInterests(members)
	kinds := KindsForInterests(ranked)
	r.logger.Debug().
		Int64("trip_id", trip.ID).
		Strs("interests", ranked).
		Str("kinds", kinds).
		Msg("Derived kinds from group interests")
	return kinds
}

func (r *Recommender) format(ctx context.Context, trip *models.Trip, c *models.PlaceCandidate, category string) models.RecommendedPlace {
	place := models.RecommendedPlace{
		XID:      c.XID,
		Name:     c.Name,
		City:     trip.City,
		Category: category,
		Lat:      c.Point.Latitude,
		Lon:      c.Point.Longitude,
		Kinds:    c.Kinds,
		Address:  map[string]string{},
	}
	if place.Name == "" {
		place.Name = unknownPlaceName
	}

	if d := c.Detail; d != nil {
		place.ShortDescription = truncateRunes(d.Description, maxDescriptionRunes)
		place.Wikipedia = d.Wikipedia
		if d.Address != nil {
			place.Address = d.Address
		}
		if d.Image != "" {
			place.Image = d.Image
			place.ImageSource = models.ImageSourceOpenTripMap
			metrics.RecordImageResolved(models.ImageSourceOpenTripMap)
		}
	}

	if place.Image == "" {
		place.Image, place.ImageSource = r.images.Resolve(ctx, c.Name, trip.City, trip.Country, category)
	}
	return place
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
