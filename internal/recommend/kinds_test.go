// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package recommend

import (
	"context"
	"reflect"
	"testing"

	"github.com/tomtom215/wayfarer/internal/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		kinds string
		want  string
	}{
		{"natural,beaches", models.CategoryNature},
		{"sport,climbing", models.CategoryAdventure},
		{"historic,monuments", models.CategoryCulture},
		{"foods,restaurants", models.CategoryFood},
		{"", models.CategoryCulture},
		{"amusements", models.CategoryCulture},
		// nature is checked before food
		{"foods,park", models.CategoryNature},
		{"MUSEUMS", models.CategoryCulture},
	}
	for _, tt := range tests {
		if got := Categorize(tt.kinds); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.kinds, got, tt.want)
		}
	}
}

func TestDominantInterests(t *testing.T) {
	members := []models.MemberPreference{
		member(1, models.BudgetLow, models.StyleSolo, "Beaches", "Food"),
		{UserID: 2},
		member(3, models.BudgetLow, models.StyleSolo, "Food", "Art"),
		member(4, models.BudgetHigh, models.StyleGroup, "Art", "Food", "Nightlife"),
	}
	got := DominantInterests(members)
	want := []string{"Food", "Art", "Beaches", "Nightlife"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DominantInterests() = %v, want %v", got, want)
	}

	if got := DominantInterests(nil); len(got) != 0 {
		t.Errorf("DominantInterests(nil) = %v, want empty", got)
	}
}

func TestKindsForInterests(t *testing.T) {
	tests := []struct {
		name   string
		ranked []string
		want   string
	}{
		{"culture and history", []string{"Culture", "History"}, "cultural,historic"},
		{"unknown only", []string{"Luxury", "Wellness"}, ""},
		{"empty", nil, ""},
		{"only top five count", []string{"Luxury", "Wellness", "Heritage", "Road Trips", "Shopping", "Food"}, "shops"},
		{
			"dedups across interests",
			[]string{"Photography", "Beaches", "Adventure", "Nightlife", "Shopping", "Food"},
			"natural,architecture,cultural,beaches,sport,amusements,shops",
		},
		{
			"eight distinct kinds",
			[]string{"Photography", "Water Sports", "Museums", "Nightlife", "Shopping"},
			"natural,architecture,cultural,sport,beaches,museums,amusements,shops",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindsForInterests(tt.ranked); got != tt.want {
				t.Errorf("KindsForInterests(%v) = %q, want %q", tt.ranked, got, tt.want)
			}
		})
	}
}

func TestKindsForCategory(t *testing.T) {
	if k, ok := KindsForCategory("Culture"); !ok || k != "cultural,historic" {
		t.Errorf("KindsForCategory(Culture) = %q, %v", k, ok)
	}
	if k, ok := KindsForCategory("all"); !ok || k != "" {
		t.Errorf("KindsForCategory(all) = %q, %v", k, ok)
	}
	if _, ok := KindsForCategory("food"); ok {
		t.Error("food is a display category, not a filter with kinds")
	}
}

func TestAnalyze(t *testing.T) {
	store := &mockTripStore{members: []models.MemberPreference{
		member(1, models.BudgetMedium, models.StyleGroup, "Food", "Art"),
		member(2, models.BudgetLow, models.StyleGroup, "Food"),
		member(3, models.BudgetLow, models.StyleSolo, "History", "Beaches", "Nature", "Culture", "Mountains"),
		{UserID: 4},
	}}
	rec := New(store, &mockGeocoder{}, nil, nil, nil, Config{})

	got, err := rec.Analyze(context.Background(), lucerneTrip())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.MemberCount != 4 {
		t.Errorf("MemberCount = %d, want 4", got.MemberCount)
	}
	wantInterests := []string{"Food", "Art", "History", "Beaches", "Nature"}
	if !reflect.DeepEqual(got.DominantInterests, wantInterests) {
		t.Errorf("DominantInterests = %v, want %v", got.DominantInterests, wantInterests)
	}
	if got.DominantBudget != models.BudgetLow || got.BudgetDistribution[models.BudgetLow] != 2 {
		t.Errorf("budget = %q %v", got.DominantBudget, got.BudgetDistribution)
	}
	if got.DominantStyle != models.StyleGroup || got.StyleDistribution[models.StyleSolo] != 1 {
		t.Errorf("style = %q %v", got.DominantStyle, got.StyleDistribution)
	}
}

func TestAnalyzeEmptyGroup(t *testing.T) {
	got := AnalyzeMembers(nil)
	if got.MemberCount != 0 || got.DominantBudget != "" || got.DominantStyle != "" {
		t.Errorf("unexpected analysis: %+v", got)
	}
	if got.DominantInterests == nil || got.BudgetDistribution == nil {
		t.Error("collections should be empty, not nil")
	}
}
