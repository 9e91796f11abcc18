// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

import "time"

// PlaceCandidate is a point of interest returned by a places provider. It is
// transient until a user saves it as a Destination.
type PlaceCandidate struct {
	XID    string       `json:"xid"`
	Name   string       `json:"name"`
	Kinds  string       `json:"kinds"`
	Point  Coordinates  `json:"point"`
	Detail *PlaceDetail `json:"detail,omitempty"`
}

// PlaceDetail is the descriptive payload fetched per place. The zero value
// means "nothing known".
type PlaceDetail struct {
	Image       string            `json:"image,omitempty"`
	Description string            `json:"description,omitempty"`
	Wikipedia   string            `json:"wikipedia,omitempty"`
	Address     map[string]string `json:"address,omitempty"`
}

// Empty reports whether the detail carries no image and no description.
func (d *PlaceDetail) Empty() bool {
	return d == nil || (d.Image == "" && d.Description == "")
}

// Image sources.
const (
	ImageSourceOpenTripMap = "opentripmap"
	ImageSourceUnsplash    = "unsplash"
	ImageSourceFallback    = "fallback"
)

// Place categories.
const (
	CategoryNature    = "nature"
	CategoryAdventure = "adventure"
	CategoryCulture   = "culture"
	CategoryFood      = "food"
	CategoryAll       = "all"
)

// RecommendedPlace is a formatted recommendation as returned to clients.
type RecommendedPlace struct {
	XID              string            `json:"xid"`
	Name             string            `json:"name"`
	City             string            `json:"city"`
	Image            string            `json:"image"`
	ImageSource      string            `json:"image_source"`
	ShortDescription string            `json:"short_description"`
	Category         string            `json:"category"`
	Lat              float64           `json:"lat"`
	Lon              float64           `json:"lon"`
	Kinds            string            `json:"kinds"`
	Wikipedia        string            `json:"wikipedia,omitempty"`
	Address          map[string]string `json:"address,omitempty"`
}

// Destination is a place persisted after a user saved it. XID is unique.
type Destination struct {
	ID          int64     `json:"id"`
	XID         string    `json:"xid"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lon"`
	Kinds       string    `json:"kinds"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// SavedDestination is a destination pinned to a trip.
type SavedDestination struct {
	ID          int64       `json:"id"`
	TripID      int64       `json:"trip_id"`
	Destination Destination `json:"destination"`
	SavedBy     int64       `json:"saved_by"`
	SavedAt     time.Time   `json:"saved_at"`
	Order       int         `json:"order"`
	Notes       string      `json:"notes,omitempty"`
}

// ImageCacheEntry maps a normalized image query to a resolved URL.
type ImageCacheEntry struct {
	Query     string    `json:"query"`
	ImageURL  string    `json:"image_url"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageCacheStats counts cached image rows by source.
type ImageCacheStats struct {
	Total    int `json:"total"`
	Unsplash int `json:"unsplash"`
	Fallback int `json:"fallback"`
}

// GroupAnalysis summarizes the preferences of a trip's accepted members.
type GroupAnalysis struct {
	MemberCount        int            `json:"member_count"`
	DominantInterests  []string       `json:"dominant_interests"`
	BudgetDistribution map[string]int `json:"budget_distribution"`
	DominantBudget     string         `json:"dominant_budget,omitempty"`
	StyleDistribution  map[string]int `json:"style_distribution"`
	DominantStyle      string         `json:"dominant_style,omitempty"`
}
