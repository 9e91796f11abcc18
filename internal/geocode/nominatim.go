// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package geocode resolves free-text trip locations to coordinates.
//
// Resolution is a single call to a Nominatim-compatible search endpoint with
// the first result taken. Every failure (empty input, timeout, transport
// error, bad status, unparseable body, no match, open circuit) is logged and
// reported as ErrNotFound; callers never have to distinguish them.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wayfarer/internal/breaker"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// ErrNotFound is the only error Resolve returns.
var ErrNotFound = errors.New("geocode: location not found")

// Geocoder resolves a city (optionally qualified by region and country).
type Geocoder interface {
	Resolve(ctx context.Context, city, region, country string) (models.Coordinates, error)
}

// Nominatim is a Geocoder backed by the OpenStreetMap Nominatim search API.
type Nominatim struct {
	client    *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	cb        *breaker.Breaker[*models.Coordinates]
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim creates a Nominatim client. Requests are limited to
// cfg.RatePerSecond to respect the public usage policy.
func NewNominatim(cfg config.GeocoderConfig) *Nominatim {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Nominatim{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.URL,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		cb:        breaker.New[*models.Coordinates]("nominatim", breaker.Settings{}),
	}
}

// BuildQuery joins the non-empty location parts with ", ".
func BuildQuery(city, region, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{city, region, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Resolve returns the coordinates of the first match for the location.
func (n *Nominatim) Resolve(ctx context.Context, city, region, country string) (models.Coordinates, error) {
	if strings.TrimSpace(city) == "" {
		return models.Coordinates{}, ErrNotFound
	}
	query := BuildQuery(city, region, country)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	coords, err := n.cb.Execute(func() (*models.Coordinates, error) {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		return n.search(ctx, query)
	})

	switch {
	case err != nil:
		metrics.RecordProviderCall("nominatim", "search", providerResult(err), time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("Geocoding failed")
		return models.Coordinates{}, ErrNotFound
	case coords == nil:
		metrics.RecordProviderCall("nominatim", "search", "empty", time.Since(start))
		logging.Ctx(ctx).Info().Str("query", query).Msg("No geocoding match")
		return models.Coordinates{}, ErrNotFound
	}

	metrics.RecordProviderCall("nominatim", "search", "ok", time.Since(start))
	logging.Ctx(ctx).Debug().Str("query", query).Float64("lat", coords.Latitude).
		Float64("lon", coords.Longitude).Msg("Geocoded location")
	return *coords, nil
}

// search performs the HTTP call. A nil result with nil error means no match.
func (n *Nominatim) search(ctx context.Context, query string) (*models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode Nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func providerResult(err error) string {
	if breaker.IsRejected(err) {
		return "rejected"
	}
	return "error"
}

var _ Geocoder = (*Nominatim)(nil)
