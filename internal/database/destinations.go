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
	"strings"
	"time"

	"github.com/tomtom215/wayfarer/internal/models"
)

const destinationColumns = `d.id, COALESCE(d.xid, ''), d.name, d.city, d.country, d.category,
	d.description, d.image_url, d.latitude, d.longitude, d.kinds, d.is_active, d.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDestination(row rowScanner, extra ...any) (models.Destination, error) {
	var (
		d        models.Destination
		lat, lon sql.NullFloat64
	)
	dest := []any{&d.ID, &d.XID, &d.Name, &d.City, &d.Country, &d.Category,
		&d.Description, &d.ImageURL, &lat, &lon, &d.Kinds, &d.IsActive, &d.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return d, err
	}
	d.Latitude = lat.Float64
	d.Longitude = lon.Float64
	return d, nil
}

// UpsertDestination creates the destination keyed by XID, or refreshes its
// display fields when it already exists. d.ID and d.CreatedAt are filled in.
func (db *DB) UpsertDestination(ctx context.Context, d *models.Destination) error {
	if d.XID == "" {
		return fmt.Errorf("xid is required")
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO destinations (xid, name, city, country, category, description,
			image_url, latitude, longitude, kinds, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, true)
		ON CONFLICT (xid) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			country = excluded.country,
			category = excluded.category,
			description = excluded.description,
			image_url = excluded.image_url,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			kinds = excluded.kinds,
			updated_at = current_timestamp`,
		d.XID, d.Name, d.City, d.Country, d.Category, d.Description,
		d.ImageURL, d.Latitude, d.Longitude, d.Kinds)
	observe("upsert", "destinations", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert destination %s: %w", d.XID, err)
	}

	stored, err := db.destinationByXID(ctx, d.XID)
	if err != nil {
		return err
	}
	*d = stored
	return nil
}

func (db *DB) destinationByXID(ctx context.Context, xid string) (models.Destination, error) {
	start := time.Now()
	d, err := scanDestination(db.conn.QueryRowContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations d WHERE d.xid = ?`, xid))
	observe("select", "destinations", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, fmt.Errorf("failed to get destination %s: %w", xid, err)
	}
	return d, nil
}

// GetDestination returns an active destination by ID, or ErrNotFound.
func (db *DB) GetDestination(ctx context.Context, id int64) (*models.Destination, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	d, err := scanDestination(db.conn.QueryRowContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations d WHERE d.id = ? AND d.is_active`, id))
	observe("select", "destinations", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination %d: %w", id, err)
	}
	return &d, nil
}

// SaveTripDestination pins a destination to a trip. Saving the same
// destination to the same trip twice returns ErrAlreadySaved.
func (db *DB) SaveTripDestination(ctx context.Context, tripID int64, dest models.Destination, savedBy int64, notes string) (*models.SavedDestination, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	saved := models.SavedDestination{
		TripID:      tripID,
		Destination: dest,
		SavedBy:     savedBy,
		Notes:       notes,
	}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO trip_saved_destinations (trip_id, destination_id, saved_by, notes)
		VALUES (?, ?, ?, ?)
		RETURNING id, saved_at`,
		tripID, dest.ID, savedBy, notes,
	).Scan(&saved.ID, &saved.SavedAt)
	observe("insert", "trip_saved_destinations", start, err)

	if isUniqueConstraintError(err) {
		return nil, ErrAlreadySaved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save destination %d to trip %d: %w", dest.ID, tripID, err)
	}
	return &saved, nil
}

// ListSaved returns a trip's saved destinations in itinerary order, unordered
// entries last and newest first.
func (db *DB) ListSaved(ctx context.Context, tripID int64) ([]models.SavedDestination, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+destinationColumns+`, s.id, s.saved_by, s.saved_at, COALESCE(s.sort_order, 0), s.notes
		FROM trip_saved_destinations s
		JOIN destinations d ON d.id = s.destination_id
		WHERE s.trip_id = ?
		ORDER BY s.sort_order ASC NULLS LAST, s.saved_at DESC, s.id DESC`, tripID)
	observe("select", "trip_saved_destinations", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved destinations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []models.SavedDestination{}
	for rows.Next() {
		s := models.SavedDestination{TripID: tripID}
		d, err := scanDestination(rows, &s.ID, &s.SavedBy, &s.SavedAt, &s.Order, &s.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved destination: %w", err)
		}
		s.Destination = d
		out = append(out, s)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern is a LIKE pattern matching s literally anywhere in a value.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// DestinationFilter narrows SearchDestinations.
type DestinationFilter struct {
	City     string
	Country  string
	Category string
	Limit    int
}

// SearchDestinations returns active stored destinations whose city or country
// contains the given text, case-insensitively. With neither set, every active
// destination qualifies.
func (db *DB) SearchDestinations(ctx context.Context, f DestinationFilter) ([]models.Destination, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		where    = []string{"d.is_active"}
		location []string
		args     []any
	)
	if f.City != "" {
		location = append(location, `d.city ILIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.City))
	}
	if f.Country != "" {
		location = append(location, `d.country ILIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.Country))
	}
	if len(location) > 0 {
		where = append(where, "("+strings.Join(location, " OR ")+")")
	}
	if f.Category != "" {
		where = append(where, "d.category = ?")
		args = append(args, f.Category)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 30
	}
	args = append(args, limit)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+destinationColumns+`
		FROM destinations d
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY d.name, d.id
		LIMIT ?`, args...)
	observe("select", "destinations", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to search destinations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []models.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
