// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package imagery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/config"
)

// ErrQuota marks a quota or permission failure from the image provider. It
// is the only error that disables the provider.
var ErrQuota = errors.New("imagery: provider quota or permission failure")

// Searcher finds one landscape image URL for a query. ("", nil) means no
// match.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Unsplash is a Searcher backed by the Unsplash search API.
type Unsplash struct {
	client    *http.Client
	baseURL   string
	accessKey string
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// NewUnsplash creates the client.
func NewUnsplash(cfg config.UnsplashConfig) *Unsplash {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Unsplash{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.URL,
		accessKey: cfg.AccessKey,
	}
}

// Configured reports whether an access key is set.
func (u *Unsplash) Configured() bool { return u.accessKey != "" }

// Search requests exactly one landscape result for query.
func (u *Unsplash) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query Unsplash: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read Unsplash response: %w", err)
	}

	if isQuotaResponse(resp.StatusCode, body) {
		return "", fmt.Errorf("%w: status %d", ErrQuota, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash returned status %d", resp.StatusCode)
	}

	var data unsplashSearchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to decode Unsplash response: %w", err)
	}
	if len(data.Results) == 0 {
		return "", nil
	}
	return data.Results[0].URLs.Regular, nil
}

// isQuotaResponse detects 403s and the rate-limit text Unsplash sends with
// other statuses once the hourly allowance is spent.
func isQuotaResponse(status int, body []byte) bool {
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		return true
	}
	return status != http.StatusOK && bytes.Contains(bytes.ToLower(body), []byte("rate limit exceeded"))
}

var _ Searcher = (*Unsplash)(nil)
