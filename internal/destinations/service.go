// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package destinations saves recommended places to trips.
package destinations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfarer/internal/database"
	"github.com/tomtom215/wayfarer/internal/events"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/validation"
)

var (
	// ErrAlreadySaved is returned when the destination is already on the trip.
	ErrAlreadySaved = database.ErrAlreadySaved

	// ErrDestinationNotFound is returned when a save by ID names an unknown
	// or inactive destination.
	ErrDestinationNotFound = errors.New("destination not found or inactive")
)

// Store persists destinations and trip pins.
type Store interface {
	UpsertDestination(ctx context.Context, d *models.Destination) error
	GetDestination(ctx context.Context, id int64) (*models.Destination, error)
	SaveTripDestination(ctx context.Context, tripID int64, dest models.Destination, savedBy int64, notes string) (*models.SavedDestination, error)
	ListSaved(ctx context.Context, tripID int64) ([]models.SavedDestination, error)
}

// Publisher announces saved destinations.
type Publisher interface {
	PublishDestinationSaved(ctx context.Context, e *events.DestinationSaved) error
}

// SaveRequest is the body of a save. Either XID (a place from the live
// recommendations) or DestinationID (an already stored destination) is set.
type SaveRequest struct {
	DestinationID    int64    `json:"destination_id" validate:"required_without=XID,omitempty,gt=0"`
	XID              string   `json:"xid" validate:"required_without=DestinationID,max=100"`
	Name             string   `json:"name" validate:"required_with=XID,max=200"`
	Category         string   `json:"category" validate:"required_with=XID,omitempty,place_category"`
	Image            string   `json:"image" validate:"omitempty,url,max=500"`
	ShortDescription string   `json:"short_description" validate:"max=5000"`
	Lat              *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon              *float64 `json:"lon" validate:"omitempty,longitude"`
	Kinds            string   `json:"kinds" validate:"max=500"`
	Notes            string   `json:"notes" validate:"max=2000"`
}

// Service saves and lists trip destinations.
type Service struct {
	store  Store
	events Publisher
	logger zerolog.Logger
}

// NewService creates a Service. publisher may be nil.
func NewService(store Store, publisher Publisher) *Service {
	return &Service{
		store:  store,
		events: publisher,
		logger: logging.WithComponent("destinations"),
	}
}

// Save pins a destination to trip on behalf of userID. Invalid requests
// return a *validation.RequestValidationError.
func (s *Service) Save(ctx context.Context, trip *models.Trip, userID int64, req SaveRequest) (*models.SavedDestination, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}

	dest, err := s.resolve(ctx, trip, req)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.SaveTripDestination(ctx, trip.ID, *dest, userID, req.Notes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("trip_id", trip.ID).
		Int64("destination_id", dest.ID).
		Str("xid", dest.XID).
		Int64("user_id", userID).
		Msg("Destination saved")

	s.publish(ctx, saved)
	return saved, nil
}

// resolve returns the stored destination the request refers to, creating or
// refreshing it for XID requests. City and country come from the trip.
func (s *Service) resolve(ctx context.Context, trip *models.Trip, req SaveRequest) (*models.Destination, error) {
	if req.XID == "" {
		dest, err := s.store.GetDestination(ctx, req.DestinationID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrDestinationNotFound
		}
		if err != nil {
			return nil, err
		}
		return dest, nil
	}

	dest := &models.Destination{
		XID:         strings.TrimSpace(req.XID),
		Name:        strings.TrimSpace(req.Name),
		City:        trip.City,
		Country:     trip.Country,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Description: req.ShortDescription,
		ImageURL:    req.Image,
		Kinds:       req.Kinds,
	}
	if req.Lat != nil {
		dest.Latitude = *req.Lat
	}
	if req.Lon != nil {
		dest.Longitude = *req.Lon
	}
	if err := s.store.UpsertDestination(ctx, dest); err != nil {
		return nil, fmt.Errorf("failed to store destination: %w", err)
	}
	return dest, nil
}

// publish never fails the save.
func (s *Service) publish(ctx context.Context, saved *models.SavedDestination) {
	if s.events == nil {
		return
	}
	err := s.events.PublishDestinationSaved(ctx, &events.DestinationSaved{
		TripID:        saved.TripID,
		DestinationID: saved.Destination.ID,
		XID:           saved.Destination.XID,
		Name:          saved.Destination.Name,
		SavedBy:       saved.SavedBy,
		SavedAt:       saved.SavedAt,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int64("trip_id", saved.TripID).Msg("Failed to publish destination saved event")
	}
}

// ListSaved returns a trip's saved destinations.
func (s *Service) ListSaved(ctx context.Context, tripID int64) ([]models.SavedDestination, error) {
	return s.store.ListSaved(ctx, tripID)
}
