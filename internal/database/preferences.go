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

// DefaultInterests is the interest catalog seeded on startup.
var DefaultInterests = []string{
	"Beaches", "Mountains", "Food", "Culture", "Adventure",
	"Nature", "Heritage", "Nightlife", "Shopping", "Wellness",
	"Road Trips", "Photography", "Art", "History", "Luxury",
}

// SeedInterests creates any missing interests from names. Existing rows are
// left alone. Returns the number created.
func (db *DB) SeedInterests(ctx context.Context, names []string) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	created := 0
	for _, name := range names {
		start := time.Now()
		res, err := db.conn.ExecContext(ctx, `
			INSERT INTO interests (name, is_active) VALUES (?, true)
			ON CONFLICT (name) DO NOTHING`, name)
		observe("insert", "interests", start, err)
		if err != nil {
			return created, fmt.Errorf("failed to seed interest %q: %w", name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created++
		}
	}
	return created, nil
}

// ListInterests returns all interests ordered by name.
func (db *DB) ListInterests(ctx context.Context, activeOnly bool) ([]models.Interest, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `SELECT id, name, is_active FROM interests`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	observe("select", "interests", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []models.Interest
	for rows.Next() {
		var i models.Interest
		if err := rows.Scan(&i.ID, &i.Name, &i.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// SetPreference creates or replaces a user's preference record and interest
// set. Interests are referenced by ID.
func (db *DB) SetPreference(ctx context.Context, p models.Preference) (err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("upsert", "preferences", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO preferences (user_id, budget_range, travel_style, preferred_duration)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			budget_range = excluded.budget_range,
			travel_style = excluded.travel_style,
			preferred_duration = excluded.preferred_duration,
			updated_at = current_timestamp`,
		p.UserID, p.BudgetRange, p.TravelStyle, p.PreferredDuration)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	// Re-inserting a key deleted in the same transaction trips DuckDB's
	// constraint check, so only links that are no longer wanted are removed.
	keep := make([]any, 0, len(p.Interests)+1)
	keep = append(keep, p.UserID)
	placeholders := make([]string, 0, len(p.Interests))
	for _, interest := range p.Interests {
		keep = append(keep, interest.ID)
		placeholders = append(placeholders, "?")
	}
	del := `DELETE FROM preference_interests WHERE user_id = ?`
	if len(placeholders) > 0 {
		del += ` AND interest_id NOT IN (` + strings.Join(placeholders, ", ") + `)`
	}
	if _, err = tx.ExecContext(ctx, del, keep...); err != nil {
		return fmt.Errorf("failed to clear interests: %w", err)
	}
	for _, interest := range p.Interests {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO preference_interests (user_id, interest_id) VALUES (?, ?)`,
			p.UserID, interest.ID)
		if err != nil {
			return fmt.Errorf("failed to link interest %d: %w", interest.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preference: %w", err)
	}
	return nil
}

// GetPreference returns a user's preference with interests ordered by name,
// or (nil, nil) when the user has none.
func (db *DB) GetPreference(ctx context.Context, userID int64) (*models.Preference, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	p := models.Preference{UserID: userID}
	err := db.conn.QueryRowContext(ctx, `
		SELECT budget_range, travel_style, preferred_duration
		FROM preferences WHERE user_id = ?`, userID,
	).Scan(&p.BudgetRange, &p.TravelStyle, &p.PreferredDuration)
	observe("select", "preferences", start, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference for user %d: %w", userID, err)
	}

	byUser, err := db.interestsByUser(ctx, &userID)
	if err != nil {
		return nil, err
	}
	p.Interests = byUser[userID]
	return &p, nil
}

// ListPreferences returns every preference record ordered by user ID.
func (db *DB) ListPreferences(ctx context.Context) ([]models.Preference, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, budget_range, travel_style, preferred_duration
		FROM preferences ORDER BY user_id`)
	observe("select", "preferences", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	var prefs []models.Preference
	for rows.Next() {
		var p models.Preference
		if err := rows.Scan(&p.UserID, &p.BudgetRange, &p.TravelStyle, &p.PreferredDuration); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	err = rows.Err()
	closeWithLog(rows, "rows")
	if err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}

	byUser, err := db.interestsByUser(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range prefs {
		prefs[i].Interests = byUser[prefs[i].UserID]
	}
	return prefs, nil
}

// interestsByUser loads interest links for one user, or all users when
// userID is nil.
func (db *DB) interestsByUser(ctx context.Context, userID *int64) (map[int64][]models.Interest, error) {
	query := `
		SELECT pi.user_id, i.id, i.name, i.is_active
		FROM preference_interests pi
		JOIN interests i ON i.id = pi.interest_id`
	var args []any
	if userID != nil {
		query += ` WHERE pi.user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY pi.user_id, i.name`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("select", "preference_interests", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load interests: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := make(map[int64][]models.Interest)
	for rows.Next() {
		var (
			uid int64
			i   models.Interest
		)
		if err := rows.Scan(&uid, &i.ID, &i.Name, &i.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		out[uid] = append(out[uid], i)
	}
	return out, rows.Err()
}
