// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package events carries domain events over an in-process watermill bus.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// TopicDestinationSaved is published after a destination is pinned to a trip.
const TopicDestinationSaved = "destination.saved"

// DestinationSaved is the payload of TopicDestinationSaved.
type DestinationSaved struct {
	TripID        int64     `json:"trip_id"`
	DestinationID int64     `json:"destination_id"`
	XID           string    `json:"xid"`
	Name          string    `json:"name"`
	SavedBy       int64     `json:"saved_by"`
	SavedAt       time.Time `json:"saved_at"`
}

// Validate checks the fields every consumer relies on.
func (e *DestinationSaved) Validate() error {
	if e.TripID <= 0 {
		return errors.New("trip_id is required")
	}
	if e.DestinationID <= 0 {
		return errors.New("destination_id is required")
	}
	if e.XID == "" {
		return errors.New("xid is required")
	}
	return nil
}

// MarshalDestinationSaved validates and encodes e.
func MarshalDestinationSaved(e *DestinationSaved) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalDestinationSaved decodes a payload.
func UnmarshalDestinationSaved(data []byte) (*DestinationSaved, error) {
	var e DestinationSaved
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}
