// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wayfarer/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/wayfarer.duckdb",
			MaxMemory: "1GB",
		},
		KV: KVConfig{
			Backend:    "badger",
			Path:       "/data/kv",
			GCInterval: 10 * time.Minute,
		},
		Geocoder: GeocoderConfig{
			URL:           "https://nominatim.openstreetmap.org/search",
			UserAgent:     "wayfarer/1.0 (trip planner)",
			Timeout:       10 * time.Second,
			RatePerSecond: 1,
		},
		OpenTripMap: OpenTripMapConfig{
			URL:         "https://api.opentripmap.com/0.1/en/places",
			Timeout:     10 * time.Second,
			DetailTTL:   10 * time.Minute,
			FailureTTL:  1 * time.Minute,
			MaxDetailed: 12,
		},
		Overpass: OverpassConfig{
			Enabled: true,
			URL:     "https://overpass-api.de/api/interpreter",
			Timeout: 30 * time.Second,
		},
		Unsplash: UnsplashConfig{
			URL:           "https://api.unsplash.com",
			Timeout:       10 * time.Second,
			DisableWindow: 1 * time.Hour,
		},
		Recommend: RecommendConfig{
			Radius:       30000,
			DefaultLimit: 30,
			MaxLimit:     100,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: struct defaults, then the YAML file if one
// is found, then mapped environment variables. The result is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"shutdown_timeout":      "server.shutdown_timeout",
	"environment":           "server.environment",
	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"kv_backend":            "kv.backend",
	"kv_path":               "kv.path",
	"kv_gc_interval":        "kv.gc_interval",
	"nominatim_url":         "geocoder.url",
	"nominatim_user_agent":  "geocoder.user_agent",
	"nominatim_timeout":     "geocoder.timeout",
	"nominatim_rate":        "geocoder.rate_per_second",
	"opentripmap_api_key":   "opentripmap.api_key",
	"opentripmap_url":       "opentripmap.url",
	"opentripmap_timeout":   "opentripmap.timeout",
	"opentripmap_cache_ttl": "opentripmap.detail_ttl",
	"opentripmap_fail_ttl":  "opentripmap.failure_ttl",
	"opentripmap_details":   "opentripmap.max_detailed",
	"overpass_enabled":      "overpass.enabled",
	"overpass_url":          "overpass.url",
	"overpass_timeout":      "overpass.timeout",
	"unsplash_access_key":   "unsplash.access_key",
	"unsplash_url":          "unsplash.url",
	"unsplash_timeout":      "unsplash.timeout",
	"unsplash_disable_for":  "unsplash.disable_window",
	"recommend_radius":      "recommend.radius",
	"recommend_limit":       "recommend.default_limit",
	"recommend_max_limit":   "recommend.max_limit",
	"auth_mode":             "security.auth_mode",
	"jwt_secret":            "security.jwt_secret",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"cors_origins":          "security.cors_origins",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
}

// envTransformFunc maps environment variable names onto koanf paths.
// Unknown variables return "" so koanf skips them.
//
//   - OPENTRIPMAP_API_KEY -> opentripmap.api_key
//   - DUCKDB_PATH -> database.path
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
