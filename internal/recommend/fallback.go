// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/wayfarer/internal/database"
	"github.com/tomtom215/wayfarer/internal/models"
)

// StoredPrefix marks xids of recommendations served from stored destinations.
const StoredPrefix = "db_"

// DestinationSearcher finds stored destinations.
type DestinationSearcher interface {
	SearchDestinations(ctx context.Context, f database.DestinationFilter) ([]models.Destination, error)
}

// Fallback serves active stored destinations in the trip's city or country
// when the live pipeline came back empty.
func Fallback(ctx context.Context, store DestinationSearcher, trip *models.Trip, category string, limit int) ([]models.RecommendedPlace, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == models.CategoryAll {
		category = ""
	}
	if category == CategoryGastronomy {
		category = models.CategoryFood
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	dests, err := store.SearchDestinations(ctx, database.DestinationFilter{
		City:     trip.City,
		Country:  trip.Country,
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search stored destinations: %w", err)
	}

	out := make([]models.RecommendedPlace, 0, len(dests))
	for _, d := range dests {
		city := d.City
		if city == "" {
			city = trip.City
		}
		out = append(out, models.RecommendedPlace{
			XID:              StoredPrefix + strconv.FormatInt(d.ID, 10),
			Name:             d.Name,
			City:             city,
			Image:            d.ImageURL,
			ShortDescription: d.Description,
			Category:         d.Category,
			Lat:              d.Latitude,
			Lon:              d.Longitude,
			Kinds:            d.Kinds,
			Address:          map[string]string{},
		})
	}
	return out, nil
}
