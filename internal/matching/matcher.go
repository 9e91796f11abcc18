// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/wayfarer/internal/models"
)

// PreferenceStore loads preference records. GetPreference returns (nil, nil)
// when the user has none.
type PreferenceStore interface {
	GetPreference(ctx context.Context, userID int64) (*models.Preference, error)
	ListPreferences(ctx context.Context) ([]models.Preference, error)
}

// Matcher ranks other users by compatibility.
type Matcher struct {
	store PreferenceStore
}

// NewMatcher creates a Matcher.
func NewMatcher(store PreferenceStore) *Matcher {
	return &Matcher{store: store}
}

// Matches returns up to limit users scoring at least minScore against
// userID, best first with ties ordered by user id. A user without a
// preference record has no matches.
func (m *Matcher) Matches(ctx context.Context, userID int64, limit int, minScore float64) ([]models.BuddyMatch, error) {
	me, err := m.store.GetPreference(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preference: %w", err)
	}
	if me == nil {
		return []models.BuddyMatch{}, nil
	}

	others, err := m.store.ListPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	matches := make([]models.BuddyMatch, 0, len(others))
	for i := range others {
		if others[i].UserID == userID {
			continue
		}
		r := Score(me, &others[i])
		if r.Score < minScore {
			continue
		}
		matches = append(matches, models.BuddyMatch{
			UserID:          others[i].UserID,
			Score:           r.Score,
			SharedInterests: r.SharedInterests,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].UserID < matches[j].UserID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
