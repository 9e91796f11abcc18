// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package imagery picks a representative image for a place.
//
// Resolution walks an ordered list of search queries, consulting a persistent
// query cache before each provider call, and ends at a curated fallback
// image. The fallback is cached per place only when every query got a
// definitive empty answer from the provider. A quota or permission failure
// from the provider sets an expiring flag in the shared kvstore; while it is
// set no provider calls are made.
package imagery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/wayfarer/internal/kvstore"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// DisabledFlagKey is the kvstore key of the provider disable flag.
const DisabledFlagKey = "imagery:unsplash_disabled"

// ErrNotConfigured is returned by Probe when no access key is set.
var ErrNotConfigured = errors.New("imagery: provider not configured")

// Cache is the persistent query to image mapping.
type Cache interface {
	// GetImage returns (nil, nil) on a miss.
	GetImage(ctx context.Context, query string) (*models.ImageCacheEntry, error)
	PutImage(ctx context.Context, entry models.ImageCacheEntry) error
	ImageStats(ctx context.Context) (models.ImageCacheStats, error)
}

// Resolver resolves place images.
type Resolver struct {
	searcher      Searcher
	configured    bool
	cache         Cache
	flags         kvstore.Store
	disableWindow time.Duration
}

// NewResolver creates a Resolver. A nil searcher, or configured=false, means
// no provider calls for the life of the process; that is logged once here.
func NewResolver(searcher Searcher, configured bool, cache Cache, flags kvstore.Store, disableWindow time.Duration) *Resolver {
	if searcher == nil || !configured {
		logging.Warn().Str("provider", "unsplash").Msg("UNSPLASH_ACCESS_KEY not set, using curated images only")
		configured = false
	}
	if disableWindow <= 0 {
		disableWindow = time.Hour
	}
	return &Resolver{
		searcher:      searcher,
		configured:    configured,
		cache:         cache,
		flags:         flags,
		disableWindow: disableWindow,
	}
}

// NormalizeQuery is the cache key form of a query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// CandidateQueries returns the search queries for a place in priority order:
// the place itself, the city plus a category keyword, then the city alone.
func CandidateQueries(name, city, country, category string) []string {
	name, city, country = strings.TrimSpace(name), strings.TrimSpace(city), strings.TrimSpace(country)
	var qs []string

	switch {
	case name != "" && city != "" && country != "":
		qs = append(qs, name+" "+city+" "+country)
	case name != "" && city != "":
		qs = append(qs, name+" "+city)
	case name != "":
		qs = append(qs, name)
	}

	if city != "" {
		if kw, ok := categoryKeywords[strings.ToLower(category)]; ok {
			qs = append(qs, city+" "+kw)
		}
		if country != "" {
			qs = append(qs, city+" "+country)
		} else {
			qs = append(qs, city+" landmark")
		}
	}
	return qs
}

// placeKey is the cache key for a place's curated fallback.
func placeKey(name, city, country string) string {
	return NormalizeQuery(strings.TrimSpace(name) + "_" + strings.TrimSpace(city) + "_" + strings.TrimSpace(country))
}

// Resolve returns an image URL and its source ("unsplash" or "fallback").
// It never fails.
func (r *Resolver) Resolve(ctx context.Context, name, city, country, category string) (string, string) {
	key := placeKey(name, city, country)
	anonymous := strings.TrimSpace(name) == "" && strings.TrimSpace(city) == ""
	if !anonymous {
		if hit := r.cached(ctx, key); hit != nil {
			return hit.ImageURL, hit.Source
		}
	}

	// exhausted is false when a query was skipped or failed, so a later call
	// may still find a provider image.
	exhausted := false
	if r.configured && !r.Disabled(ctx) {
		exhausted = true
		for _, q := range CandidateQueries(name, city, country, category) {
			url, source, err := r.tryQuery(ctx, q)
			if url != "" {
				metrics.RecordImageResolved(source)
				return url, source
			}
			if err != nil {
				exhausted = false
			}
			if errors.Is(err, ErrQuota) {
				break
			}
		}
	}

	url := PickFallback(category, strings.TrimSpace(name)+"_"+strings.TrimSpace(city))
	if exhausted && !anonymous {
		r.store(ctx, models.ImageCacheEntry{Query: key, ImageURL: url, Source: models.ImageSourceFallback})
	}
	metrics.RecordImageResolved(models.ImageSourceFallback)
	return url, models.ImageSourceFallback
}

// tryQuery resolves one candidate query. An ErrQuota error means the provider
// was just disabled and the chain must be abandoned.
func (r *Resolver) tryQuery(ctx context.Context, query string) (url, source string, err error) {
	if hit := r.cached(ctx, NormalizeQuery(query)); hit != nil {
		return hit.ImageURL, hit.Source, nil
	}

	start := time.Now()
	found, err := r.searcher.Search(ctx, query)
	switch {
	case errors.Is(err, ErrQuota):
		metrics.RecordProviderCall("unsplash", "search", "rejected", time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("query", query).Dur("window", r.disableWindow).
			Msg("Image provider refused request, disabling")
		r.disable(ctx)
		return "", "", err
	case err != nil:
		metrics.RecordProviderCall("unsplash", "search", "error", time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("Image search failed")
		return "", "", err
	case found == "":
		metrics.RecordProviderCall("unsplash", "search", "empty", time.Since(start))
		return "", "", nil
	}

	metrics.RecordProviderCall("unsplash", "search", "ok", time.Since(start))
	r.store(ctx, models.ImageCacheEntry{Query: NormalizeQuery(query), ImageURL: found, Source: models.ImageSourceUnsplash})
	return found, models.ImageSourceUnsplash, nil
}

func (r *Resolver) cached(ctx context.Context, key string) *models.ImageCacheEntry {
	entry, err := r.cache.GetImage(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("query", key).Msg("Image cache read failed")
		metrics.RecordCacheLookup("image", "miss")
		return nil
	}
	if entry == nil {
		metrics.RecordCacheLookup("image", "miss")
		return nil
	}
	metrics.RecordCacheLookup("image", "hit")
	return entry
}

func (r *Resolver) store(ctx context.Context, entry models.ImageCacheEntry) {
	if err := r.cache.PutImage(ctx, entry); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("query", entry.Query).Msg("Image cache write failed")
	}
}

func (r *Resolver) disable(ctx context.Context) {
	metrics.ImageProviderDisabled.Inc()
	if err := r.flags.Set(ctx, DisabledFlagKey, []byte(time.Now().UTC().Format(time.RFC3339)), r.disableWindow); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to set image provider disable flag")
	}
}

// Disabled reports whether the disable flag is currently set.
func (r *Resolver) Disabled(ctx context.Context) bool {
	return kvstore.Exists(ctx, r.flags, DisabledFlagKey)
}

// Status describes the image provider for operators.
type Status struct {
	Configured    bool                   `json:"configured"`
	Disabled      bool                   `json:"disabled"`
	DisabledSince string                 `json:"disabled_since,omitempty"`
	Cache         models.ImageCacheStats `json:"cache"`
}

// Status reports configuration, the disable flag and cache statistics.
func (r *Resolver) Status(ctx context.Context) (Status, error) {
	s := Status{Configured: r.configured}
	if raw, err := r.flags.Get(ctx, DisabledFlagKey); err == nil {
		s.Disabled = true
		s.DisabledSince = string(raw)
	}
	stats, err := r.cache.ImageStats(ctx)
	if err != nil {
		return s, err
	}
	s.Cache = stats
	return s, nil
}

// Reset clears the disable flag.
func (r *Resolver) Reset(ctx context.Context) error {
	return r.flags.Delete(ctx, DisabledFlagKey)
}

// Probe runs one uncached search. A quota failure still sets the flag.
func (r *Resolver) Probe(ctx context.Context, query string) (string, error) {
	if !r.configured {
		return "", ErrNotConfigured
	}
	url, err := r.searcher.Search(ctx, query)
	if errors.Is(err, ErrQuota) {
		r.disable(ctx)
	}
	return url, err
}
