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

// GetImage returns the cached image for a normalized query, or (nil, nil)
// when there is none.
func (db *DB) GetImage(ctx context.Context, query string) (*models.ImageCacheEntry, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	e := models.ImageCacheEntry{Query: query}
	err := db.conn.QueryRowContext(ctx, `
		SELECT image_url, image_source, created_at
		FROM destination_image_cache WHERE query = ?`, query,
	).Scan(&e.ImageURL, &e.Source, &e.CreatedAt)
	observe("select", "destination_image_cache", start, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image cache: %w", err)
	}
	return &e, nil
}

// PutImage stores a query to image mapping. A concurrent writer for the same
// query wins or loses without error.
func (db *DB) PutImage(ctx context.Context, e models.ImageCacheEntry) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO destination_image_cache (query, image_url, image_source)
		VALUES (?, ?, ?)
		ON CONFLICT (query) DO UPDATE SET
			image_url = excluded.image_url,
			image_source = excluded.image_source`,
		e.Query, e.ImageURL, e.Source)
	observe("upsert", "destination_image_cache", start, err)
	if err != nil {
		return fmt.Errorf("failed to write image cache: %w", err)
	}
	return nil
}

// ImageStats counts cached images by source.
func (db *DB) ImageStats(ctx context.Context) (models.ImageCacheStats, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var s models.ImageCacheStats
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE image_source = ?),
			COUNT(*) FILTER (WHERE image_source = ?)
		FROM destination_image_cache`,
		models.ImageSourceUnsplash, models.ImageSourceFallback,
	).Scan(&s.Total, &s.Unsplash, &s.Fallback)
	observe("select", "destination_image_cache", start, err)
	if err != nil {
		return s, fmt.Errorf("failed to count image cache: %w", err)
	}
	return s, nil
}
