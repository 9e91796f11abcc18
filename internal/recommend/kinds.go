// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/wayfarer/internal/models"
)

// CategoryGastronomy is accepted as a request filter and matches places
// categorized as food.
const CategoryGastronomy = "gastronomy"

const (
	maxRankedInterests = 5
	maxKinds           = 8
)

// categoryKinds maps an explicit category filter to provider kinds. An empty
// value means no kinds restriction.
var categoryKinds = map[string]string{
	models.CategoryNature:    "natural",
	models.CategoryAdventure: "sport",
	models.CategoryCulture:   "cultural,historic",
	CategoryGastronomy:       "foods",
	models.CategoryAll:       "",
}

// interestKinds maps a lowercased interest name to provider kinds.
var interestKinds = map[string]string{
	"adventure":    "sport",
	"hiking":       "natural,sport",
	"sports":       "sport",
	"water sports": "sport,beaches",
	"nature":       "natural",
	"beaches":      "beaches,natural",
	"mountains":    "natural",
	"wildlife":     "natural",
	"culture":      "cultural,historic",
	"history":      "historic,cultural",
	"architecture": "architecture,cultural",
	"museums":      "museums,cultural",
	"art":          "cultural,museums",
	"food":         "foods",
	"gastronomy":   "foods",
	"nightlife":    "amusements",
	"shopping":     "shops",
	"relaxation":   "natural,beaches",
	"photography":  "natural,architecture,cultural",
}

// categoryRules are checked in order; the first rule with a keyword found in
// the kinds string decides the category.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{models.CategoryNature, []string{"natural", "beach", "mountain", "park"}},
	{models.CategoryAdventure, []string{"sport", "climbing", "diving"}},
	{models.CategoryCulture, []string{"cultural", "historic", "museum", "architecture"}},
	{models.CategoryFood, []string{"food", "restaurant", "cafe"}},
}

// KindsForCategory returns the kinds for an explicit category and whether the
// category is known.
func KindsForCategory(category string) (string, bool) {
	kinds, ok := categoryKinds[strings.ToLower(category)]
	return kinds, ok
}

// Categorize assigns a display category from a comma-separated kinds string.
// Places matching no rule are culture.
func Categorize(kinds string) string {
	lower := strings.ToLower(kinds)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryCulture
}

// matchesFilter reports whether a computed category satisfies a requested
// filter. An empty or "all" filter matches everything.
func matchesFilter(category, filter string) bool {
	switch strings.ToLower(filter) {
	case "", models.CategoryAll:
		return true
	case CategoryGastronomy:
		return category == models.CategoryFood
	default:
		return category == strings.ToLower(filter)
	}
}

// DominantInterests ranks interest names across members by how many members
// hold them, most frequent first. Ties keep first-seen order.
func DominantInterests(members []models.MemberPreference) []string {
	var order []string
	counts := make(map[string]int)
	for _, m := range members {
		if m.Preference == nil {
			continue
		}
		for _, i := range m.Preference.Interests {
			if _, seen := counts[i.Name]; !seen {
				order = append(order, i.Name)
			}
			counts[i.Name]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// KindsForInterests maps the top ranked interests to at most eight distinct
// kinds in first-seen order. Returns "" when nothing maps.
func KindsForInterests(ranked []string) string {
	if len(ranked) > maxRankedInterests {
		ranked = ranked[:maxRankedInterests]
	}
	seen := make(map[string]bool)
	var kinds []string
	for _, interest := range ranked {
		mapped, ok := interestKinds[strings.ToLower(strings.TrimSpace(interest))]
		if !ok {
			continue
		}
		for _, k := range strings.Split(mapped, ",") {
			if seen[k] || len(kinds) >= maxKinds {
				continue
			}
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return strings.Join(kinds, ",")
}
