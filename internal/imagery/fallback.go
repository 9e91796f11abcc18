// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package imagery

import (
	"crypto/md5" //nolint:gosec // used for stable bucketing, not security
	"math/big"
	"strings"
)

func photo(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?w=800"
}

// curated holds hand-picked images per category.
var curated = map[string][]string{
	"nature": {
		photo("1506905925346-21bda4d32df4"),
		photo("1511593358241-7eea1f3c84e5"),
		photo("1469474968028-56623f02e42e"),
		photo("1441974231531-c6227db76b6e"),
		photo("1426604966848-d7adac402bff"),
	},
	"adventure": {
		photo("1551632811-561732d1e306"),
		photo("1476514525535-07fb3b4ae5f1"),
		photo("1483728642387-6c3bdd6c93e5"),
		photo("1501555088652-021faa106b9b"),
	},
	"culture": {
		photo("1513635269975-59663e0ac1ad"),
		photo("1533929736458-ca588d08c8be"),
		photo("1555400038-63f5ba517a47"),
		photo("1558525148-544f74d6678f"),
	},
	"food": {
		photo("1504674900247-0877df9cc836"),
		photo("1555939594-58d7cb561ad1"),
		photo("1565299624946-b28f40a0ae38"),
		photo("1546069901-ba9599a7e63c"),
	},
	"gastronomy": {
		photo("1504674900247-0877df9cc836"),
		photo("1555939594-58d7cb561ad1"),
	},
	"leisure": {
		photo("1540541338287-41700207dee6"),
		photo("1507525428034-b723cf961d3e"),
		photo("1559827260-dc66d52bef19"),
	},
}

// categoryKeywords extend a city name into a category-flavored search.
var categoryKeywords = map[string]string{
	"nature":     "landscape nature",
	"adventure":  "adventure outdoor",
	"culture":    "culture heritage",
	"food":       "food cuisine",
	"gastronomy": "food cuisine",
	"leisure":    "leisure relaxation",
}

// PickFallback deterministically selects a curated image for category.
// Unknown categories use the culture list. The same seed always maps to the
// same image.
func PickFallback(category, seed string) string {
	list, ok := curated[strings.ToLower(category)]
	if !ok {
		list = curated["culture"]
	}
	sum := md5.Sum([]byte(seed)) //nolint:gosec // see import
	n := new(big.Int).SetBytes(sum[:])
	idx := new(big.Int).Mod(n, big.NewInt(int64(len(list)))).Int64()
	return list[idx]
}
