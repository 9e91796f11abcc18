// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

import "time"

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Trip status values.
const (
	TripStatusPlanned   = "planned"
	TripStatusUpcoming  = "upcoming"
	TripStatusCompleted = "completed"
)

// Trip is a planned journey to a city. Latitude and Longitude stay nil until
// the first successful geocode; once set they are never re-resolved.
type Trip struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	City      string     `json:"city"`
	Region    string     `json:"region,omitempty"`
	Country   string     `json:"country,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatorID int64      `json:"creator_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// HasCoordinates reports whether both coordinates are stored.
func (t *Trip) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil
}

// Coordinates returns the stored coordinates. Only valid when HasCoordinates
// is true.
func (t *Trip) Coordinates() Coordinates {
	if !t.HasCoordinates() {
		return Coordinates{}
	}
	return Coordinates{Latitude: *t.Latitude, Longitude: *t.Longitude}
}

// SetCoordinates stores c on the trip.
func (t *Trip) SetCoordinates(c Coordinates) {
	lat, lon := c.Latitude, c.Longitude
	t.Latitude = &lat
	t.Longitude = &lon
}

// Member roles and statuses.
const (
	MemberRoleCreator = "creator"
	MemberRoleMember  = "member"

	MemberStatusInvited  = "invited"
	MemberStatusAccepted = "accepted"
	MemberStatusRejected = "rejected"
)

// TripMember links a user to a trip.
type TripMember struct {
	TripID   int64     `json:"trip_id"`
	UserID   int64     `json:"user_id"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}
