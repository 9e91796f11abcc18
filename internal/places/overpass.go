// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/breaker"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/models"
)

// Overpass implements Provider using the OpenStreetMap Overpass API. The
// kind filter is ignored; the query always asks for tourism, historic,
// park and food/museum amenity nodes.
type Overpass struct {
	client  *http.Client
	baseURL string
	enabled bool
	cb      *breaker.Breaker[[]models.PlaceCandidate]
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// NewOverpass creates the client.
func NewOverpass(cfg config.OverpassConfig) *Overpass {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Overpass{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.URL,
		enabled: cfg.Enabled,
		cb:      breaker.New[[]models.PlaceCandidate]("overpass", breaker.Settings{}),
	}
}

// Name returns the provider name.
func (o *Overpass) Name() string { return "overpass" }

// IsAvailable reports whether the provider is enabled.
func (o *Overpass) IsAvailable() bool { return o.enabled && o.baseURL != "" }

// BuildOverpassQuery renders the Overpass QL used for radius searches.
func BuildOverpassQuery(lat, lon float64, radius, limit int) string {
	around := fmt.Sprintf("(around:%d,%s,%s)", radius,
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64))

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];(")
	for _, sel := range []string{
		`node["tourism"]`,
		`node["historic"]`,
		`node["leisure"="park"]`,
		`node["amenity"~"restaurant|cafe|museum"]`,
	} {
		b.WriteString(sel)
		b.WriteString(around)
		b.WriteString(";")
	}
	fmt.Fprintf(&b, ");out body %d;", limit)
	return b.String()
}

// ByRadius posts the query and converts named elements to candidates.
func (o *Overpass) ByRadius(ctx context.Context, q Query) ([]models.PlaceCandidate, error) {
	form := url.Values{}
	form.Set("data", BuildOverpassQuery(q.Latitude, q.Longitude, q.Radius, q.Limit))

	return o.cb.Execute(func() ([]models.PlaceCandidate, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := o.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to query Overpass: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
		}

		var data overpassResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
		}
		return convertElements(data.Elements, q.Limit), nil
	})
}

func convertElements(elements []overpassElement, limit int) []models.PlaceCandidate {
	out := make([]models.PlaceCandidate, 0, len(elements))
	for _, el := range elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		out = append(out, models.PlaceCandidate{
			XID:   OSMPrefix + strconv.FormatInt(el.ID, 10),
			Name:  name,
			Kinds: KindsFromTags(el.Tags),
			Point: models.Coordinates{Latitude: el.Lat, Longitude: el.Lon},
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// KindsFromTags translates OSM tags into the comma-separated kind vocabulary
// used by OpenTripMap.
func KindsFromTags(tags map[string]string) string {
	var kinds []string
	if v := tags["tourism"]; v != "" {
		kinds = append(kinds, v)
	}
	if tags["historic"] != "" {
		kinds = append(kinds, "historic")
	}
	if v := tags["leisure"]; v != "" {
		kinds = append(kinds, v)
	}
	if v := tags["amenity"]; v != "" {
		kinds = append(kinds, v)
	}
	return strings.Join(kinds, ",")
}

var _ Provider = (*Overpass)(nil)
