// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package places

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/wayfarer/internal/kvstore"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// DetailFetcher loads the detail record for one place. (nil, nil) means the
// provider has no record for xid.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, xid string) (*models.PlaceDetail, error)
}

// LookupState tags the outcome of a detail cache lookup.
type LookupState int

const (
	// Miss means nothing is cached for the xid.
	Miss LookupState = iota
	// Hit means a detail record is cached.
	Hit
	// NegativeHit means a recent fetch found nothing or failed.
	NegativeHit
)

func (s LookupState) String() string {
	switch s {
	case Hit:
		return "hit"
	case NegativeHit:
		return "negative_hit"
	default:
		return "miss"
	}
}

// DetailLookup is the result of DetailCache.Lookup. Detail is set only for Hit.
type DetailLookup struct {
	State  LookupState
	Detail *models.PlaceDetail
}

type cachedDetail struct {
	Found  bool                `json:"found"`
	Detail *models.PlaceDetail `json:"detail,omitempty"`
}

const detailKeyPrefix = "places:detail:"

// DetailCache stores place details in a kvstore.Store with separate TTLs for
// found records, empty records and failures.
type DetailCache struct {
	store      kvstore.Store
	ttl        time.Duration
	failureTTL time.Duration
}

// NewDetailCache creates a cache. ttl applies to found and empty records,
// failureTTL to transport and decode failures.
func NewDetailCache(store kvstore.Store, ttl, failureTTL time.Duration) *DetailCache {
	return &DetailCache{store: store, ttl: ttl, failureTTL: failureTTL}
}

// Lookup returns the cached state for xid. Store errors read as Miss.
func (c *DetailCache) Lookup(ctx context.Context, xid string) DetailLookup {
	var entry cachedDetail
	err := kvstore.GetJSON(ctx, c.store, detailKeyPrefix+xid, &entry)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("xid", xid).Msg("Detail cache read failed")
		}
		return DetailLookup{State: Miss}
	}
	if !entry.Found || entry.Detail == nil {
		return DetailLookup{State: NegativeHit}
	}
	return DetailLookup{State: Hit, Detail: entry.Detail}
}

// Put caches a fetched record. An empty record is cached as a negative entry.
func (c *DetailCache) Put(ctx context.Context, xid string, d *models.PlaceDetail) {
	entry := cachedDetail{Found: !d.Empty(), Detail: d}
	if !entry.Found {
		entry.Detail = nil
	}
	c.write(ctx, xid, entry, c.ttl)
}

// PutFailure caches a failed fetch for the shorter failure TTL.
func (c *DetailCache) PutFailure(ctx context.Context, xid string) {
	c.write(ctx, xid, cachedDetail{}, c.failureTTL)
}

func (c *DetailCache) write(ctx context.Context, xid string, entry cachedDetail, ttl time.Duration) {
	if err := kvstore.SetJSON(ctx, c.store, detailKeyPrefix+xid, entry, ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("xid", xid).Msg("Detail cache write failed")
	}
}

// Enricher attaches detail records to a bounded prefix of candidates.
type Enricher struct {
	fetcher DetailFetcher
	cache   *DetailCache
}

// NewEnricher creates an Enricher.
func NewEnricher(fetcher DetailFetcher, cache *DetailCache) *Enricher {
	return &Enricher{fetcher: fetcher, cache: cache}
}

// WithDetails returns a copy of candidates in the same order. Only the first
// maxDetailed entries are looked up; the rest, and every OSM-sourced entry,
// carry an empty detail.
func (e *Enricher) WithDetails(ctx context.Context, candidates []models.PlaceCandidate, maxDetailed int) []models.PlaceCandidate {
	out := make([]models.PlaceCandidate, len(candidates))
	for i, c := range candidates {
		if i < maxDetailed && !IsOSM(c.XID) {
			c.Detail = e.detail(ctx, c.XID)
		} else {
			c.Detail = &models.PlaceDetail{}
		}
		out[i] = c
	}
	return out
}

func (e *Enricher) detail(ctx context.Context, xid string) *models.PlaceDetail {
	lookup := e.cache.Lookup(ctx, xid)
	metrics.RecordCacheLookup("place_detail", lookup.State.String())

	switch lookup.State {
	case Hit:
		return lookup.Detail
	case NegativeHit:
		return &models.PlaceDetail{}
	}

	d, err := e.fetcher.FetchDetail(ctx, xid)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("xid", xid).Msg("Detail fetch failed")
		e.cache.PutFailure(ctx, xid)
		return &models.PlaceDetail{}
	}
	if d == nil {
		d = &models.PlaceDetail{}
	}
	e.cache.Put(ctx, xid, d)
	return d
}
