// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/wayfarer/internal/database"
	"github.com/tomtom215/wayfarer/internal/geocode"
	"github.com/tomtom215/wayfarer/internal/imagery"
	"github.com/tomtom215/wayfarer/internal/kvstore"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/places"
)

// mockTripStore implements TripStore for testing.
type mockTripStore struct {
	mu         sync.Mutex
	members    []models.MemberPreference
	membersErr error
	saved      []models.Coordinates
	listCalls  int
}

func (m *mockTripStore) SaveTripCoordinates(_ context.Context, _ int64, c models.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, c)
	return nil
}

func (m *mockTripStore) ListMemberPreferences(context.Context, int64) ([]models.MemberPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.members, m.membersErr
}

// mockGeocoder implements geocode.Geocoder.
type mockGeocoder struct {
	coords models.Coordinates
	err    error
	calls  int
}

func (m *mockGeocoder) Resolve(context.Context, string, string, string) (models.Coordinates, error) {
	m.calls++
	return m.coords, m.err
}

// mockProvider implements places.Provider.
type mockProvider struct {
	name    string
	results []models.PlaceCandidate
	queries []places.Query
}

func (m *mockProvider) Name() string      { return m.name }
func (m *mockProvider) IsAvailable() bool { return true }
func (m *mockProvider) ByRadius(_ context.Context, q places.Query) ([]models.PlaceCandidate, error) {
	m.queries = append(m.queries, q)
	return m.results, nil
}

// mockFetcher implements places.DetailFetcher.
type mockFetcher struct {
	details map[string]*models.PlaceDetail
	calls   []string
}

func (m *mockFetcher) FetchDetail(_ context.Context, xid string) (*models.PlaceDetail, error) {
	m.calls = append(m.calls, xid)
	return m.details[xid], nil
}

// mapImageCache implements imagery.Cache.
type mapImageCache struct {
	mu      sync.Mutex
	entries map[string]models.ImageCacheEntry
}

func (c *mapImageCache) GetImage(_ context.Context, q string) (*models.ImageCacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[q]; ok {
		return &e, nil
	}
	return nil, nil
}

func (c *mapImageCache) PutImage(_ context.Context, e models.ImageCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Query] = e
	return nil
}

func (c *mapImageCache) ImageStats(context.Context) (models.ImageCacheStats, error) {
	return models.ImageCacheStats{}, nil
}

type fixture struct {
	store    *mockTripStore
	geocoder *mockGeocoder
	primary  *mockProvider
	fetcher  *mockFetcher
	rec      *Recommender
}

func newFixture(candidates []models.PlaceCandidate) *fixture {
	f := &fixture{
		store:    &mockTripStore{},
		geocoder: &mockGeocoder{coords: models.Coordinates{Latitude: 47.0502, Longitude: 8.3093}},
		primary:  &mockProvider{name: "primary", results: candidates},
		fetcher:  &mockFetcher{details: map[string]*models.PlaceDetail{}},
	}
	kv := kvstore.NewMemory(time.Minute)
	enricher := places.NewEnricher(f.fetcher, places.NewDetailCache(kv, 10*time.Minute, time.Minute))
	images := imagery.NewResolver(nil, false, &mapImageCache{entries: map[string]models.ImageCacheEntry{}}, kv, time.Hour)
	f.rec = New(f.store, f.geocoder, places.NewSource(f.primary), enricher, images, Config{})
	return f
}

func candidate(xid, name, kinds string) models.PlaceCandidate {
	return models.PlaceCandidate{XID: xid, Name: name, Kinds: kinds, Point: models.Coordinates{Latitude: 47.05, Longitude: 8.30}}
}

func lucerneTrip() *models.Trip {
	return &models.Trip{ID: 1, Title: "Lakes", City: "Lucerne", Country: "Switzerland"}
}

func member(userID int64, budget, style string, interests ...string) models.MemberPreference {
	p := &models.Preference{UserID: userID, BudgetRange: budget, TravelStyle: style}
	for i, name := range interests {
		p.Interests = append(p.Interests, models.Interest{ID: int64(i + 1), Name: name})
	}
	return models.MemberPreference{UserID: userID, Preference: p}
}

func TestRecommendLucerneEndToEnd(t *testing.T) {
	f := newFixture([]models.PlaceCandidate{
		candidate("W1", "Chapel Bridge", "historic,architecture,interesting_places"),
		candidate("W2", "Lion Monument", "cultural,monuments"),
		candidate("W3", "Glacier Garden", "museums,cultural"),
		candidate("W4", "Jesuit Church", "religion,architecture"),
	})
	f.store.members = []models.MemberPreference{member(1, models.BudgetMedium, models.StyleGroup, "Culture", "History")}
	f.fetcher.details["W1"] = &models.PlaceDetail{Image: "https://otm/chapel.jpg", Description: "A covered bridge."}

	trip := lucerneTrip()
	got, err := f.rec.Recommend(context.Background(), trip, Options{Limit: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(f.primary.queries) != 1 {
		t.Fatalf("provider called %d times, want 1", len(f.primary.queries))
	}
	q := f.primary.queries[0]
	if q.Kinds != "cultural,historic" {
		t.Errorf("Kinds = %q, want cultural,historic", q.Kinds)
	}
	if q.Limit != 6 || q.Radius != DefaultRadius {
		t.Errorf("query limit/radius = %d/%d, want 6/%d", q.Limit, q.Radius, DefaultRadius)
	}

	if len(got) != 3 {
		t.Fatalf("got %d places, want 3", len(got))
	}
	for _, p := range got {
		if p.Image == "" {
			t.Errorf("place %s has no image", p.XID)
		}
		if p.City != "Lucerne" || p.Category != models.CategoryCulture {
			t.Errorf("unexpected place: %+v", p)
		}
	}
	if got[0].ImageSource != models.ImageSourceOpenTripMap || got[0].ShortDescription != "A covered bridge." {
		t.Errorf("first place should use provider detail: %+v", got[0])
	}
	if got[1].ImageSource != models.ImageSourceFallback {
		t.Errorf("second place ImageSource = %q, want fallback", got[1].ImageSource)
	}

	if !trip.HasCoordinates() || len(f.store.saved) != 1 {
		t.Errorf("coordinates should be resolved and persisted once, saved=%v", f.store.saved)
	}
}

func TestRecommendCoordinateGate(t *testing.T) {
	f := newFixture([]models.PlaceCandidate{candidate("W1", "Somewhere", "cultural")})
	f.geocoder.err = geocode.ErrNotFound

	got, err := f.rec.Recommend(context.Background(), &models.Trip{ID: 2, City: "Atlantis"}, Options{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil list", got)
	}
	if len(f.primary.queries) != 0 {
		t.Error("places provider must not be called without coordinates")
	}
	if len(f.store.saved) != 0 {
		t.Error("nothing should be persisted")
	}
}

func TestRecommendStoredCoordinatesSkipGeocoding(t *testing.T) {
	f := newFixture([]models.PlaceCandidate{candidate("W1", "Somewhere", "cultural")})
	trip := lucerneTrip()
	trip.SetCoordinates(models.Coordinates{Latitude: 1, Longitude: 2})

	if _, err := f.rec.Recommend(context.Background(), trip, Options{}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if f.geocoder.calls != 0 {
		t.Errorf("geocoder called %d times, want 0", f.geocoder.calls)
	}
	if q := f.primary.queries[0]; q.Latitude != 1 || q.Longitude != 2 {
		t.Errorf("query used %v,%v; want stored coordinates", q.Latitude, q.Longitude)
	}
}

func TestRecommendDeduplicates(t *testing.T) {
	f := newFixture([]models.PlaceCandidate{
		candidate("W1", "A", "cultural"),
		candidate("W1", "A again", "cultural"),
		candidate("W2", "B", "cultural"),
		candidate("", "no id", "cultural"),
		candidate("W2", "B again", "cultural"),
		candidate("W3", "C", "cultural"),
	})

	got, err := f.rec.Recommend(context.Background(), lucerneTrip(), Options{Limit: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	seen := map[string]bool{}
	for _, p := range got {
		if seen[p.XID] {
			t.Errorf("duplicate xid %s", p.XID)
		}
		seen[p.XID] = true
	}
	if len(got) != 3 {
		t.Errorf("got %d places, want 3", len(got))
	}
}

func TestRecommendCategoryFilter(t *testing.T) {
	candidates := []models.PlaceCandidate{
		candidate("W1", "Lake", "natural,beaches"),
		candidate("W2", "Bistro", "foods,restaurants"),
		candidate("W3", "Museum", "museums,cultural"),
		candidate("W4", "Climbing Hall", "sport,climbing"),
	}

	tests := []struct {
		category  string
		wantKinds string
		wantXIDs  []string
	}{
		{"nature", "natural", []string{"W1"}},
		{"gastronomy", "foods", []string{"W2"}},
		{"culture", "cultural,historic", []string{"W3"}},
		{"adventure", "sport", []string{"W4"}},
		{"all", "", []string{"W1", "W2", "W3", "W4"}},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			f := newFixture(candidates)
			got, err := f.rec.Recommend(context.Background(), lucerneTrip(), Options{Category: tt.category})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if k := f.primary.queries[0].Kinds; k != tt.wantKinds {
				t.Errorf("Kinds = %q, want %q", k, tt.wantKinds)
			}
			if f.store.listCalls != 0 && tt.category != "all" {
				t.Errorf("explicit category should not load member preferences")
			}
			if len(got) != len(tt.wantXIDs) {
				t.Fatalf("got %d places, want %v", len(got), tt.wantXIDs)
			}
			for i, p := range got {
				if p.XID != tt.wantXIDs[i] {
					t.Errorf("place %d = %s, want %s", i, p.XID, tt.wantXIDs[i])
				}
			}
		})
	}
}

func TestRecommendEnrichesBoundedPrefix(t *testing.T) {
	var candidates []models.PlaceCandidate
	for _, xid := range []string{"W1", "W2", "W3", "W4", "W5", "W6", "W7", "W8", "W9", "W10", "W11", "W12", "W13", "W14", "osm_15"} {
		candidates = append(candidates, candidate(xid, "Place "+xid, "cultural"))
	}
	f := newFixture(candidates)

	if _, err := f.rec.Recommend(context.Background(), lucerneTrip(), Options{Limit: 30}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(f.fetcher.calls) != DefaultMaxDetailed {
		t.Errorf("detail fetches = %d, want %d", len(f.fetcher.calls), DefaultMaxDetailed)
	}
}

func TestRecommendFormatsPlace(t *testing.T) {
	long := strings.Repeat("é", 400)
	f := newFixture([]models.PlaceCandidate{candidate("W1", "", "unknown_kind")})
	f.fetcher.details["W1"] = &models.PlaceDetail{
		Description: long,
		Wikipedia:   "https://en.wikipedia.org/wiki/X",
		Address:     map[string]string{"city": "Lucerne"},
	}

	got, err := f.rec.Recommend(context.Background(), lucerneTrip(), Options{})
	if err != nil || len(got) != 1 {
		t.Fatalf("Recommend() = %v, %v", got, err)
	}
	p := got[0]
	if p.Name != "Unknown Place" {
		t.Errorf("Name = %q, want Unknown Place", p.Name)
	}
	if p.Category != models.CategoryCulture {
		t.Errorf("Category = %q, want default culture", p.Category)
	}
	if n := len([]rune(p.ShortDescription)); n != 300 {
		t.Errorf("description has %d runes, want 300", n)
	}
	if p.Address["city"] != "Lucerne" || p.Wikipedia == "" {
		t.Errorf("detail fields not carried over: %+v", p)
	}
	if p.Image == "" || p.ImageSource != models.ImageSourceFallback {
		t.Errorf("expected fallback image, got %q (%s)", p.Image, p.ImageSource)
	}
}

func TestRecommendPreferenceLoadErrorSearchesUnfiltered(t *testing.T) {
	f := newFixture([]models.PlaceCandidate{candidate("W1", "Chapel Bridge", "bridges,architecture")})
	f.store.membersErr = errors.New("db down")

	got, err := f.rec.Recommend(context.Background(), lucerneTrip(), Options{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 || got[0].XID != "W1" {
		t.Errorf("got %+v, want the provider's place", got)
	}
	if len(f.primary.queries) != 1 || f.primary.queries[0].Kinds != "" {
		t.Errorf("queries = %+v, want one query without kinds", f.primary.queries)
	}
}

func TestRecommendNoCandidates(t *testing.T) {
	f := newFixture(nil)
	got, err := f.rec.Recommend(context.Background(), lucerneTrip(), Options{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty list", got)
	}
}

// mockSearcher implements DestinationSearcher.
type mockSearcher struct {
	got   database.DestinationFilter
	dests []models.Destination
}

func (m *mockSearcher) SearchDestinations(_ context.Context, f database.DestinationFilter) ([]models.Destination, error) {
	m.got = f
	return m.dests, nil
}

func TestFallback(t *testing.T) {
	s := &mockSearcher{dests: []models.Destination{
		{ID: 4, Name: "Old Town", City: "", Category: models.CategoryFood, ImageURL: "https://img/4", Latitude: 1, Longitude: 2},
	}}

	got, err := Fallback(context.Background(), s, lucerneTrip(), "gastronomy", 5)
	if err != nil {
		t.Fatalf("Fallback() error = %v", err)
	}
	if s.got.Category != models.CategoryFood || s.got.City != "Lucerne" || s.got.Country != "Switzerland" || s.got.Limit != 5 {
		t.Errorf("unexpected filter: %+v", s.got)
	}
	if len(got) != 1 || got[0].XID != "db_4" || got[0].City != "Lucerne" || got[0].Image != "https://img/4" {
		t.Errorf("unexpected result: %+v", got)
	}
}
