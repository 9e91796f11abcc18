// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package database

// schemaQueries creates the schema idempotently. Foreign keys are left out:
// DuckDB rejects updates to rows that other tables reference. Columns that
// upserts assign to must stay out of secondary indexes for the same reason.
var schemaQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS trips_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS interests_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS destinations_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS trip_saved_destinations_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS trips (
		id BIGINT PRIMARY KEY DEFAULT nextval('trips_id_seq'),
		title TEXT NOT NULL,
		city TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		latitude DOUBLE,
		longitude DOUBLE,
		start_date TIMESTAMP,
		end_date TIMESTAMP,
		creator_id BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'planned',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS trip_members (
		trip_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		status TEXT NOT NULL DEFAULT 'invited',
		joined_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (trip_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS interests (
		id BIGINT PRIMARY KEY DEFAULT nextval('interests_id_seq'),
		name TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,

	`CREATE TABLE IF NOT EXISTS preferences (
		user_id BIGINT PRIMARY KEY,
		budget_range TEXT NOT NULL DEFAULT 'medium',
		travel_style TEXT NOT NULL DEFAULT 'group',
		preferred_duration TEXT NOT NULL DEFAULT 'short',
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS preference_interests (
		user_id BIGINT NOT NULL,
		interest_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, interest_id)
	)`,

	`CREATE TABLE IF NOT EXISTS destinations (
		id BIGINT PRIMARY KEY DEFAULT nextval('destinations_id_seq'),
		xid TEXT UNIQUE,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'culture',
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		latitude DOUBLE,
		longitude DOUBLE,
		kinds TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS trip_saved_destinations (
		id BIGINT PRIMARY KEY DEFAULT nextval('trip_saved_destinations_id_seq'),
		trip_id BIGINT NOT NULL,
		destination_id BIGINT NOT NULL,
		saved_by BIGINT NOT NULL,
		saved_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		sort_order INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (trip_id, destination_id)
	)`,

	`CREATE TABLE IF NOT EXISTS destination_image_cache (
		query TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		image_source TEXT NOT NULL DEFAULT 'unsplash',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trip_members_user ON trip_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_trip ON trip_saved_destinations(trip_id)`,
}
