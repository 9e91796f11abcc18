// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package matching scores how well two travellers' preferences fit together
// and ranks potential travel buddies.
package matching

import (
	"math"
	"sort"

	"github.com/tomtom215/wayfarer/internal/models"
)

// Component weights; they sum to 1.
const (
	WeightInterests = 0.50
	WeightBudget    = 0.20
	WeightStyle     = 0.20
	WeightDuration  = 0.10
)

var budgetRank = map[string]int{
	models.BudgetLow:    0,
	models.BudgetMedium: 1,
	models.BudgetHigh:   2,
}

// Result is a compatibility score in [0, 100] with the interests both users
// share, sorted by name.
type Result struct {
	Score           float64  `json:"score"`
	SharedInterests []string `json:"shared_interests"`
}

// Score compares two preference records. Either being nil yields 0 with no
// shared interests. The function is symmetric.
func Score(a, b *models.Preference) Result {
	if a == nil || b == nil {
		return Result{SharedInterests: []string{}}
	}

	interest, shared := InterestScore(a.Interests, b.Interests)
	total := WeightInterests*interest +
		WeightBudget*BudgetScore(a.BudgetRange, b.BudgetRange) +
		WeightStyle*exact(a.TravelStyle, b.TravelStyle) +
		WeightDuration*exact(a.PreferredDuration, b.PreferredDuration)

	return Result{Score: round1(total), SharedInterests: shared}
}

// InterestScore is the Jaccard index of the interest id sets times 100.
// Both empty scores a neutral 50; exactly one empty scores 0.
func InterestScore(a, b []models.Interest) (float64, []string) {
	shared := []string{}
	if len(a) == 0 && len(b) == 0 {
		return 50, shared
	}
	if len(a) == 0 || len(b) == 0 {
		return 0, shared
	}

	setA := make(map[int64]string, len(a))
	for _, i := range a {
		setA[i.ID] = i.Name
	}
	setB := make(map[int64]struct{}, len(b))
	for _, i := range b {
		setB[i.ID] = struct{}{}
	}

	union := len(setA)
	for id := range setB {
		if name, ok := setA[id]; ok {
			shared = append(shared, name)
		} else {
			union++
		}
	}
	sort.Strings(shared)

	return float64(len(shared)) / float64(union) * 100, shared
}

// BudgetScore gives 100 for equal ranges, 50 for adjacent ones and 0
// otherwise. Unknown values only score when equal.
func BudgetScore(a, b string) float64 {
	if a == b {
		return 100
	}
	ra, okA := budgetRank[a]
	rb, okB := budgetRank[b]
	if !okA || !okB {
		return 0
	}
	if d := ra - rb; d == 1 || d == -1 {
		return 50
	}
	return 0
}

func exact(a, b string) float64 {
	if a == b {
		return 100
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
