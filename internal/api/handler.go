// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"context"
	"time"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/destinations"
	"github.com/tomtom215/wayfarer/internal/imagery"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/recommend"
)

// TripStore loads trips and answers membership questions.
type TripStore interface {
	GetTrip(ctx context.Context, id int64) (*models.Trip, error)
	IsTripMember(ctx context.Context, tripID, userID int64) (bool, error)
}

// Recommender produces live recommendations and group summaries.
type Recommender interface {
	Recommend(ctx context.Context, trip *models.Trip, opts recommend.Options) ([]models.RecommendedPlace, error)
	Analyze(ctx context.Context, trip *models.Trip) (*models.GroupAnalysis, error)
}

// SavedDestinations saves and lists a trip's destinations.
type SavedDestinations interface {
	Save(ctx context.Context, trip *models.Trip, userID int64, req destinations.SaveRequest) (*models.SavedDestination, error)
	ListSaved(ctx context.Context, tripID int64) ([]models.SavedDestination, error)
}

// BuddyMatcher ranks compatible travellers.
type BuddyMatcher interface {
	Matches(ctx context.Context, userID int64, limit int, minScore float64) ([]models.BuddyMatch, error)
}

// ImageAdmin exposes image provider operations.
type ImageAdmin interface {
	Status(ctx context.Context) (imagery.Status, error)
	Reset(ctx context.Context) error
	Probe(ctx context.Context, query string) (string, error)
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Handler serves from. Every field is required
// except Pinger.
type Deps struct {
	Trips        TripStore
	Recommender  Recommender
	Stored       recommend.DestinationSearcher
	Destinations SavedDestinations
	Buddies      BuddyMatcher
	Images       ImageAdmin
	Pinger       Pinger
}

// Handler serves the HTTP API.
type Handler struct {
	Deps
	cfg       config.RecommendConfig
	startTime time.Time
}

// NewHandler creates a Handler. Zero limits in cfg take the recommend
// package defaults.
func NewHandler(deps Deps, cfg config.RecommendConfig) *Handler {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = recommend.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.Radius <= 0 {
		cfg.Radius = recommend.DefaultRadius
	}
	return &Handler{Deps: deps, cfg: cfg, startTime: time.Now()}
}
