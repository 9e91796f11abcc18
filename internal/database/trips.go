// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/wayfarer/internal/models"
)

const tripColumns = `id, title, city, region, country, latitude, longitude,
	start_date, end_date, creator_id, status, created_at`

// CreateTrip inserts a trip and registers its creator as an accepted member.
// Coordinates are stored when already known.
func (db *DB) CreateTrip(ctx context.Context, trip *models.Trip) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var err error
	defer func() { observe("insert", "trips", start, err) }()

	if trip.Status == "" {
		trip.Status = models.TripStatusPlanned
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO trips (title, city, region, country, latitude, longitude,
			start_date, end_date, creator_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		trip.Title, trip.City, trip.Region, trip.Country,
		nullFloat(trip.Latitude), nullFloat(trip.Longitude),
		nullTime(trip.StartDate), nullTime(trip.EndDate),
		trip.CreatorID, trip.Status,
	).Scan(&trip.ID, &trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trip_members (trip_id, user_id, role, status)
		VALUES (?, ?, ?, ?)`,
		trip.ID, trip.CreatorID, models.MemberRoleCreator, models.MemberStatusAccepted)
	if err != nil {
		return fmt.Errorf("failed to insert trip creator: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip: %w", err)
	}
	return nil
}

// GetTrip returns a trip by ID, or ErrNotFound.
func (db *DB) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	trip, err := scanTrip(db.conn.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id))
	observe("select", "trips", start, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip %d: %w", id, err)
	}
	return trip, nil
}

func scanTrip(row *sql.Row) (*models.Trip, error) {
	var (
		t          models.Trip
		lat, lon   sql.NullFloat64
		start, end sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &t.City, &t.Region, &t.Country, &lat, &lon,
		&start, &end, &t.CreatorID, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid && lon.Valid {
		t.SetCoordinates(models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64})
	}
	if start.Valid {
		t.StartDate = &start.Time
	}
	if end.Valid {
		t.EndDate = &end.Time
	}
	return &t, nil
}

// SaveTripCoordinates persists geocoded coordinates. Rows that already have
// coordinates are left untouched.
func (db *DB) SaveTripCoordinates(ctx context.Context, tripID int64, c models.Coordinates) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		UPDATE trips SET latitude = ?, longitude = ?
		WHERE id = ? AND (latitude IS NULL OR longitude IS NULL)`,
		c.Latitude, c.Longitude, tripID)
	observe("update", "trips", start, err)
	if err != nil {
		return fmt.Errorf("failed to save coordinates for trip %d: %w", tripID, err)
	}
	return nil
}

// AddTripMember adds or updates a membership row.
func (db *DB) AddTripMember(ctx context.Context, m models.TripMember) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if m.Role == "" {
		m.Role = models.MemberRoleMember
	}
	if m.Status == "" {
		m.Status = models.MemberStatusInvited
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO trip_members (trip_id, user_id, role, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (trip_id, user_id) DO UPDATE SET role = excluded.role, status = excluded.status`,
		m.TripID, m.UserID, m.Role, m.Status)
	observe("upsert", "trip_members", start, err)
	if err != nil {
		return fmt.Errorf("failed to add member %d to trip %d: %w", m.UserID, m.TripID, err)
	}
	return nil
}

// IsTripMember reports whether userID created the trip or is an accepted member.
func (db *DB) IsTripMember(ctx context.Context, tripID, userID int64) (bool, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var ok bool
	err := db.conn.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM trips WHERE id = ? AND creator_id = ?)
		    OR EXISTS (SELECT 1 FROM trip_members WHERE trip_id = ? AND user_id = ? AND status = ?)`,
		tripID, userID, tripID, userID, models.MemberStatusAccepted).Scan(&ok)
	observe("select", "trip_members", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return ok, nil
}

// acceptedMemberIDs lists accepted members in join order.
func (db *DB) acceptedMemberIDs(ctx context.Context, tripID int64) ([]int64, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id FROM trip_members
		WHERE trip_id = ? AND status = ?
		ORDER BY joined_at, user_id`,
		tripID, models.MemberStatusAccepted)
	observe("select", "trip_members", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListMemberPreferences loads every accepted member of a trip together with
// their preference record, which is nil for members without one.
func (db *DB) ListMemberPreferences(ctx context.Context, tripID int64) ([]models.MemberPreference, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	ids, err := db.acceptedMemberIDs(ctx, tripID)
	if err != nil {
		return nil, err
	}

	members := make([]models.MemberPreference, 0, len(ids))
	for _, id := range ids {
		pref, err := db.GetPreference(ctx, id)
		if err != nil {
			return nil, err
		}
		members = append(members, models.MemberPreference{UserID: id, Preference: pref})
	}
	return members, nil
}

// nullFloat and nullTime pass nil through as SQL NULL.
func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
