// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package places

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/breaker"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

// OpenTripMap implements Provider and DetailFetcher against the OpenTripMap
// places API.
type OpenTripMap struct {
	client  *http.Client
	baseURL string
	apiKey  string
	radius  *breaker.Breaker[[]models.PlaceCandidate]
	details *breaker.Breaker[*models.PlaceDetail]
}

type otmPlace struct {
	XID   string   `json:"xid"`
	Name  string   `json:"name"`
	Kinds string   `json:"kinds"`
	Point otmPoint `json:"point"`
}

type otmPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type otmDetail struct {
	XID     string `json:"xid"`
	Name    string `json:"name"`
	Preview struct {
		Source string `json:"source"`
	} `json:"preview"`
	WikipediaExtracts struct {
		Text string `json:"text"`
	} `json:"wikipedia_extracts"`
	Wikipedia string            `json:"wikipedia"`
	Address   map[string]string `json:"address"`
}

// NewOpenTripMap creates the client. A missing API key is logged once and
// leaves the provider permanently unavailable.
func NewOpenTripMap(cfg config.OpenTripMapConfig) *OpenTripMap {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.APIKey == "" {
		logging.Warn().Str("provider", "opentripmap").Msg("OPENTRIPMAP_API_KEY not set, provider disabled")
	}
	return &OpenTripMap{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		radius:  breaker.New[[]models.PlaceCandidate]("opentripmap-radius", breaker.Settings{}),
		details: breaker.New[*models.PlaceDetail]("opentripmap-details", breaker.Settings{}),
	}
}

// Name returns the provider name.
func (o *OpenTripMap) Name() string { return "opentripmap" }

// IsAvailable returns true when an API key is configured.
func (o *OpenTripMap) IsAvailable() bool { return o.apiKey != "" }

// ByRadius searches places around q. Entries missing a name or xid are
// dropped. The API answers with a JSON object instead of an array for errors
// and some empty results; both are treated as no results.
func (o *OpenTripMap) ByRadius(ctx context.Context, q Query) ([]models.PlaceCandidate, error) {
	if !o.IsAvailable() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("apikey", o.apiKey)
	params.Set("lat", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(q.Radius))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("format", "json")
	if q.Kinds != "" {
		params.Set("kinds", q.Kinds)
	}

	return o.radius.Execute(func() ([]models.PlaceCandidate, error) {
		body, err := o.get(ctx, o.baseURL+"/radius?"+params.Encode())
		if err != nil {
			return nil, err
		}
		return parseRadius(body)
	})
}

func parseRadius(body []byte) ([]models.PlaceCandidate, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}

	var raw []otmPlace
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode OpenTripMap radius response: %w", err)
	}

	out := make([]models.PlaceCandidate, 0, len(raw))
	for _, p := range raw {
		if p.Name == "" || p.XID == "" {
			continue
		}
		out = append(out, models.PlaceCandidate{
			XID:   p.XID,
			Name:  p.Name,
			Kinds: p.Kinds,
			Point: models.Coordinates{Latitude: p.Point.Lat, Longitude: p.Point.Lon},
		})
	}
	return out, nil
}

// FetchDetail returns the detail record for xid, or nil when OpenTripMap
// has no usable record. Errors are transport or decode failures.
func (o *OpenTripMap) FetchDetail(ctx context.Context, xid string) (*models.PlaceDetail, error) {
	if !o.IsAvailable() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("apikey", o.apiKey)
	endpoint := fmt.Sprintf("%s/xid/%s?%s", o.baseURL, url.PathEscape(xid), params.Encode())

	return o.details.Execute(func() (*models.PlaceDetail, error) {
		body, err := o.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		if body == nil {
			return nil, nil
		}

		var d otmDetail
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, fmt.Errorf("failed to decode OpenTripMap detail: %w", err)
		}
		if d.XID == "" {
			return nil, nil
		}
		return &models.PlaceDetail{
			Image:       d.Preview.Source,
			Description: d.WikipediaExtracts.Text,
			Wikipedia:   d.Wikipedia,
			Address:     d.Address,
		}, nil
	})
}

// get returns the body of a 200 response, nil for 404, or an error.
func (o *OpenTripMap) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query OpenTripMap: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("opentripmap returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenTripMap response: %w", err)
	}
	return body, nil
}

var (
	_ Provider      = (*OpenTripMap)(nil)
	_ DetailFetcher = (*OpenTripMap)(nil)
)
