// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/wayfarer/internal/models"
)

// Analyze summarizes the preferences of a trip's accepted members. Members
// without a preference record count toward MemberCount only.
func (r *Recommender) Analyze(ctx context.Context, trip *models.Trip) (*models.GroupAnalysis, error) {
	members, err := r.trips.ListMemberPreferences(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member preferences: %w", err)
	}
	return AnalyzeMembers(members), nil
}

// AnalyzeMembers is the pure part of Analyze.
func AnalyzeMembers(members []models.MemberPreference) *models.GroupAnalysis {
	interests := DominantInterests(members)
	if len(interests) > maxRankedInterests {
		interests = interests[:maxRankedInterests]
	}

	budgets := newTally()
	styles := newTally()
	for _, m := range members {
		if m.Preference == nil {
			continue
		}
		budgets.add(m.Preference.BudgetRange)
		styles.add(m.Preference.TravelStyle)
	}

	return &models.GroupAnalysis{
		MemberCount:        len(members),
		DominantInterests:  append([]string{}, interests...),
		BudgetDistribution: budgets.counts,
		DominantBudget:     budgets.top(),
		StyleDistribution:  styles.counts,
		DominantStyle:      styles.top(),
	}
}

// tally counts values and remembers first-seen order for tie-breaking.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(v string) {
	if v == "" {
		return
	}
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *tally) top() string {
	best := ""
	for _, v := range t.order {
		if best == "" || t.counts[v] > t.counts[best] {
			best = v
		}
	}
	return best
}
