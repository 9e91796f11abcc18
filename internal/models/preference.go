// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

// Budget ranges, ordered from cheapest to most expensive.
const (
	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
)

// Travel styles.
const (
	StyleSolo      = "solo"
	StyleGroup     = "group"
	StyleFamily    = "family"
	StyleAdventure = "adventure"
	StyleLeisure   = "leisure"
)

// Preferred trip durations.
const (
	DurationWeekend = "weekend"
	DurationShort   = "short"
	DurationLong    = "long"
)

// Interest is a named travel interest such as "history" or "hiking".
type Interest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Preference is a user's travel profile. A user has at most one.
type Preference struct {
	UserID            int64      `json:"user_id"`
	BudgetRange       string     `json:"budget_range"`
	TravelStyle       string     `json:"travel_style"`
	PreferredDuration string     `json:"preferred_duration"`
	Interests         []Interest `json:"interests"`
}

// MemberPreference pairs an accepted trip member with their preference
// record. Preference is nil when the member never filled one in.
type MemberPreference struct {
	UserID     int64
	Preference *Preference
}

// BuddyMatch is a ranked compatibility result against another user.
type BuddyMatch struct {
	UserID          int64    `json:"user_id"`
	Score           float64  `json:"score"`
	SharedInterests []string `json:"shared_interests"`
}
