// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package config loads Wayfarer configuration from defaults, an optional YAML
// file and environment variables (in that order of precedence, lowest first).
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	KV          KVConfig          `koanf:"kv"`
	Geocoder    GeocoderConfig    `koanf:"geocoder"`
	OpenTripMap OpenTripMapConfig `koanf:"opentripmap"`
	Overpass    OverpassConfig    `koanf:"overpass"`
	Unsplash    UnsplashConfig    `koanf:"unsplash"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig points at the DuckDB file. ":memory:" is accepted for tests.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// KVConfig selects the expiring key-value backend shared by the breaker flag
// and the place detail cache.
type KVConfig struct {
	// Backend is "badger" or "memory".
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
	// GCInterval controls badger value-log GC and the memory janitor.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// GeocoderConfig configures the Nominatim client.
type GeocoderConfig struct {
	URL       string        `koanf:"url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`
	// RatePerSecond follows the public Nominatim usage policy by default.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// OpenTripMapConfig configures the primary places provider.
type OpenTripMapConfig struct {
	APIKey      string        `koanf:"api_key"`
	URL         string        `koanf:"url"`
	Timeout     time.Duration `koanf:"timeout"`
	DetailTTL   time.Duration `koanf:"detail_ttl"`
	FailureTTL  time.Duration `koanf:"failure_ttl"`
	MaxDetailed int           `koanf:"max_detailed"`
}

// OverpassConfig configures the secondary places provider.
type OverpassConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// UnsplashConfig configures the image provider.
type UnsplashConfig struct {
	AccessKey     string        `koanf:"access_key"`
	URL           string        `koanf:"url"`
	Timeout       time.Duration `koanf:"timeout"`
	DisableWindow time.Duration `koanf:"disable_window"`
}

// RecommendConfig holds aggregator defaults.
type RecommendConfig struct {
	Radius       int `koanf:"radius"`
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// SecurityConfig covers request authentication and HTTP hardening.
type SecurityConfig struct {
	// AuthMode is "jwt" or "none".
	AuthMode        string        `koanf:"auth_mode"`
	JWTSecret       string        `koanf:"jwt_secret"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
