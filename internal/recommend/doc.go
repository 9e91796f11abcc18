// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package recommend turns a trip into a ranked list of places to visit.
//
// # Pipeline
//
// A Recommend call runs these stages in order:
//
//   - Coordinates: a trip without stored coordinates is geocoded once and the
//     result persisted. When geocoding fails the call returns an empty list
//     without touching the places providers.
//   - Kinds: an explicit category maps through a fixed table; otherwise the
//     accepted members' interests are ranked by frequency (first seen wins a
//     tie) and the top five map to at most eight provider kinds.
//   - Candidates: the places source is asked for twice the requested limit so
//     deduplication and filtering still leave enough results.
//   - Details: the first twelve candidates are enriched with image and
//     description, cache first.
//   - Formatting: duplicates are dropped by xid, each place is categorized
//     from its kinds, filtered by the requested category, and given an image
//     (provider detail image, else the imagery resolver).
//
// Provider failures never surface to the caller; they show up as fewer
// results or fallback images. The only error Recommend returns comes from
// the trip store.
//
// When the live pipeline yields nothing, Fallback serves active destinations
// previously saved for the same city or country.
//
// # Group analysis
//
// Analyze summarizes the accepted members' preferences: dominant interests,
// budget and style distributions. It makes no provider calls.
package recommend
