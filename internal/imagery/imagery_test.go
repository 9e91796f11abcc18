// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package imagery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/kvstore"
	"github.com/tomtom215/wayfarer/internal/models"
)

// mapCache is an in-memory Cache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]models.ImageCacheEntry
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]models.ImageCacheEntry{}}
}

func (c *mapCache) GetImage(_ context.Context, q string) (*models.ImageCacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[q]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (c *mapCache) PutImage(_ context.Context, e models.ImageCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Query] = e
	return nil
}

func (c *mapCache) ImageStats(context.Context) (models.ImageCacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s models.ImageCacheStats
	for _, e := range c.entries {
		s.Total++
		switch e.Source {
		case models.ImageSourceUnsplash:
			s.Unsplash++
		case models.ImageSourceFallback:
			s.Fallback++
		}
	}
	return s, nil
}

// mockSearcher is a Searcher with a function field.
type mockSearcher struct {
	queries []string
	search  func(q string) (string, error)
}

func (m *mockSearcher) Search(_ context.Context, q string) (string, error) {
	m.queries = append(m.queries, q)
	return m.search(q)
}

func newTestResolver(s *mockSearcher) (*Resolver, *mapCache, kvstore.Store) {
	cache := newMapCache()
	flags := kvstore.NewMemory(time.Minute)
	return NewResolver(s, true, cache, flags, time.Hour), cache, flags
}

func TestCandidateQueries(t *testing.T) {
	tests := []struct {
		name, place, city, country, category string
		want                                 []string
	}{
		{"full", "Chapel Bridge", "Lucerne", "Switzerland", "culture",
			[]string{"Chapel Bridge Lucerne Switzerland", "Lucerne culture heritage", "Lucerne Switzerland"}},
		{"no country", "Chapel Bridge", "Lucerne", "", "nature",
			[]string{"Chapel Bridge Lucerne", "Lucerne landscape nature", "Lucerne landmark"}},
		{"unknown category", "Chapel Bridge", "Lucerne", "Switzerland", "misc",
			[]string{"Chapel Bridge Lucerne Switzerland", "Lucerne Switzerland"}},
		{"name only", "Chapel Bridge", "", "", "culture", []string{"Chapel Bridge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CandidateQueries(tt.place, tt.city, tt.country, tt.category)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("CandidateQueries = %q, want %q", got, tt.want)
			}
		})
	}
}

// fallbackImages returns the curated list used for category.
func fallbackImages(category string) []string {
	list, ok := curated[strings.ToLower(category)]
	if !ok {
		list = curated["culture"]
	}
	return list
}

func TestPickFallbackDeterministic(t *testing.T) {
	for _, cat := range []string{"nature", "adventure", "culture", "food", "gastronomy", "leisure", "unknown"} {
		first := PickFallback(cat, "Chapel Bridge_Lucerne")
		for i := 0; i < 5; i++ {
			if got := PickFallback(cat, "Chapel Bridge_Lucerne"); got != first {
				t.Fatalf("PickFallback(%s) not stable: %s vs %s", cat, got, first)
			}
		}
		found := false
		for _, u := range fallbackImages(cat) {
			if u == first {
				found = true
			}
		}
		if !found {
			t.Errorf("PickFallback(%s) = %s, not in curated list", cat, first)
		}
	}

	if PickFallback("unknown", "x") != PickFallback("culture", "x") {
		t.Error("unknown category should use the culture list")
	}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[PickFallback("nature", fmt.Sprintf("place-%d_city", i))] = true
	}
	if len(seen) < 2 {
		t.Error("different seeds should spread over the curated list")
	}
}

func TestResolveCachesProviderResult(t *testing.T) {
	s := &mockSearcher{search: func(string) (string, error) { return "https://img/chapel.jpg", nil }}
	r, cache, _ := newTestResolver(s)
	ctx := context.Background()

	url1, src1 := r.Resolve(ctx, "Chapel Bridge", "Lucerne", "Switzerland", "culture")
	url2, src2 := r.Resolve(ctx, "Chapel Bridge", "Lucerne", "Switzerland", "culture")

	if url1 != url2 || src1 != src2 {
		t.Errorf("results differ: (%s,%s) vs (%s,%s)", url1, src1, url2, src2)
	}
	if src1 != models.ImageSourceUnsplash {
		t.Errorf("source = %s, want unsplash", src1)
	}
	if len(s.queries) != 1 {
		t.Errorf("provider called %d times, want 1", len(s.queries))
	}
	if _, ok := cache.entries["chapel bridge lucerne switzerland"]; !ok {
		t.Errorf("normalized query not cached: %v", cache.entries)
	}
}

func TestResolveWalksQueriesInOrder(t *testing.T) {
	s := &mockSearcher{search: func(q string) (string, error) {
		switch q {
		case "Chapel Bridge Lucerne Switzerland":
			return "", nil
		case "Lucerne culture heritage":
			return "", errors.New("timeout")
		default:
			return "https://img/lucerne.jpg", nil
		}
	}}
	r, _, _ := newTestResolver(s)

	url, src := r.Resolve(context.Background(), "Chapel Bridge", "Lucerne", "Switzerland", "culture")
	if url != "https://img/lucerne.jpg" || src != models.ImageSourceUnsplash {
		t.Errorf("Resolve = %s, %s", url, src)
	}
	if len(s.queries) != 3 || s.queries[2] != "Lucerne Switzerland" {
		t.Errorf("queries = %q", s.queries)
	}
}

func TestResolveQuotaDisablesProvider(t *testing.T) {
	s := &mockSearcher{search: func(string) (string, error) {
		return "", fmt.Errorf("%w: status 403", ErrQuota)
	}}
	r, _, _ := newTestResolver(s)
	ctx := context.Background()

	url, src := r.Resolve(ctx, "Chapel Bridge", "Lucerne", "Switzerland", "culture")
	if src != models.ImageSourceFallback || url == "" {
		t.Errorf("Resolve = %s, %s; want fallback", url, src)
	}
	if len(s.queries) != 1 {
		t.Errorf("chain not abandoned after 403: %q", s.queries)
	}
	if !r.Disabled(ctx) {
		t.Fatal("disable flag not set")
	}

	_, src = r.Resolve(ctx, "Lion Monument", "Lucerne", "Switzerland", "culture")
	if src != models.ImageSourceFallback {
		t.Errorf("source = %s, want fallback while disabled", src)
	}
	if len(s.queries) != 1 {
		t.Errorf("provider called while disabled: %q", s.queries)
	}

	if err := r.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if r.Disabled(ctx) {
		t.Error("flag still set after Reset")
	}
}

func TestResolveFallbackIsCachedPerPlace(t *testing.T) {
	s := &mockSearcher{search: func(string) (string, error) { return "", nil }}
	r, cache, _ := newTestResolver(s)
	ctx := context.Background()

	url1, src1 := r.Resolve(ctx, "Hidden Gem", "Lucerne", "Switzerland", "nature")
	calls := len(s.queries)
	url2, src2 := r.Resolve(ctx, "Hidden Gem", "Lucerne", "Switzerland", "nature")

	if src1 != models.ImageSourceFallback || url1 != url2 || src1 != src2 {
		t.Errorf("fallback not stable: (%s,%s) (%s,%s)", url1, src1, url2, src2)
	}
	if len(s.queries) != calls {
		t.Errorf("second resolve retried provider (%d -> %d calls)", calls, len(s.queries))
	}
	if url1 != PickFallback("nature", "Hidden Gem_Lucerne") {
		t.Errorf("fallback = %s, want hash of name_city", url1)
	}
	if e, ok := cache.entries["hidden gem_lucerne_switzerland"]; !ok || e.Source != models.ImageSourceFallback {
		t.Errorf("fallback cache entry missing: %v", cache.entries)
	}
}

func TestResolveRetriesProviderAfterDisableWindow(t *testing.T) {
	s := &mockSearcher{search: func(string) (string, error) { return "https://img/chapel.jpg", nil }}
	r, cache, flags := newTestResolver(s)
	ctx := context.Background()

	if err := flags.Set(ctx, DisabledFlagKey, []byte("now"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, src := r.Resolve(ctx, "Chapel Bridge", "Lucerne", "Switzerland", "culture")
	if src != models.ImageSourceFallback || len(s.queries) != 0 {
		t.Fatalf("while disabled: src = %s, calls = %d", src, len(s.queries))
	}
	if len(cache.entries) != 0 {
		t.Errorf("fallback cached while disabled: %v", cache.entries)
	}

	if err := r.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	url, src := r.Resolve(ctx, "Chapel Bridge", "Lucerne", "Switzerland", "culture")
	if src != models.ImageSourceUnsplash || url != "https://img/chapel.jpg" {
		t.Errorf("after reset: Resolve = %s, %s; want provider image", url, src)
	}
	if len(s.queries) == 0 {
		t.Error("provider not called after reset")
	}
}

func TestResolveFallbackNotCachedWhenChainIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		search func(string) (string, error)
	}{
		{"quota", func(string) (string, error) { return "", fmt.Errorf("%w: status 429", ErrQuota) }},
		{"transient error", func(q string) (string, error) {
			if q == "Lucerne Switzerland" {
				return "", errors.New("timeout")
			}
			return "", nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, cache, _ := newTestResolver(&mockSearcher{search: tt.search})

			_, src := r.Resolve(context.Background(), "Hidden Gem", "Lucerne", "Switzerland", "nature")
			if src != models.ImageSourceFallback {
				t.Errorf("source = %s, want fallback", src)
			}
			if _, ok := cache.entries["hidden gem_lucerne_switzerland"]; ok {
				t.Errorf("place fallback cached after incomplete chain: %v", cache.entries)
			}
		})
	}
}

func TestResolveWithoutKeyNeverCallsProvider(t *testing.T) {
	s := &mockSearcher{search: func(string) (string, error) { return "https://img/x.jpg", nil }}
	cache := newMapCache()
	r := NewResolver(s, false, cache, kvstore.NewMemory(time.Minute), time.Hour)

	_, src := r.Resolve(context.Background(), "Chapel Bridge", "Lucerne", "Switzerland", "culture")
	if src != models.ImageSourceFallback || len(s.queries) != 0 {
		t.Errorf("src = %s, calls = %d", src, len(s.queries))
	}
	if len(cache.entries) != 0 {
		t.Errorf("fallback cached without a provider: %v", cache.entries)
	}
	if _, err := r.Probe(context.Background(), "beach"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Probe err = %v, want ErrNotConfigured", err)
	}
}

func TestStatus(t *testing.T) {
	s := &mockSearcher{search: func(q string) (string, error) {
		if q == "beach" {
			return "https://img/beach.jpg", nil
		}
		return "", nil
	}}
	r, _, _ := newTestResolver(s)
	ctx := context.Background()

	r.Resolve(ctx, "Nowhere", "Lucerne", "", "leisure")
	if url, err := r.Probe(ctx, "beach"); err != nil || url != "https://img/beach.jpg" {
		t.Errorf("Probe = %s, %v", url, err)
	}

	st, err := r.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Configured || st.Disabled {
		t.Errorf("status = %+v", st)
	}
	if st.Cache.Total != 1 || st.Cache.Fallback != 1 {
		t.Errorf("cache stats = %+v", st.Cache)
	}
}

func TestUnsplashSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Client-ID key" || r.Header.Get("Accept-Version") != "v1" {
			t.Errorf("headers = %v", r.Header)
		}
		q := r.URL.Query()
		if q.Get("per_page") != "1" || q.Get("orientation") != "landscape" {
			t.Errorf("params = %s", r.URL.RawQuery)
		}
		switch q.Get("query") {
		case "quota":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Rate Limit Exceeded"))
		case "none":
			w.Write([]byte(`{"results":[]}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.unsplash.com/photo-1"}}]}`))
		}
	}))
	defer srv.Close()

	u := NewUnsplash(config.UnsplashConfig{AccessKey: "key", URL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	if got, err := u.Search(ctx, "lucerne"); err != nil || got != "https://images.unsplash.com/photo-1" {
		t.Errorf("Search(lucerne) = %q, %v", got, err)
	}
	if got, err := u.Search(ctx, "none"); err != nil || got != "" {
		t.Errorf("Search(none) = %q, %v", got, err)
	}
	if _, err := u.Search(ctx, "quota"); !errors.Is(err, ErrQuota) {
		t.Errorf("Search(quota) err = %v, want ErrQuota", err)
	}
	if _, err := u.Search(ctx, "broken"); err == nil || errors.Is(err, ErrQuota) {
		t.Errorf("Search(broken) err = %v, want non-quota error", err)
	}
}
