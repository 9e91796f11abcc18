// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	switch c.KV.Backend {
	case "memory":
	case "badger":
		if c.KV.Path == "" {
			return fmt.Errorf("KV_PATH is required when KV_BACKEND=badger")
		}
	default:
		return fmt.Errorf("KV_BACKEND must be 'badger' or 'memory', got %q", c.KV.Backend)
	}
	return nil
}

func (c *Config) validateProviders() error {
	endpoints := []struct {
		env string
		raw string
	}{
		{"NOMINATIM_URL", c.Geocoder.URL},
		{"OPENTRIPMAP_URL", c.OpenTripMap.URL},
		{"UNSPLASH_URL", c.Unsplash.URL},
	}
	if c.Overpass.Enabled {
		endpoints = append(endpoints, struct {
			env string
			raw string
		}{"OVERPASS_URL", c.Overpass.URL})
	}
	for _, e := range endpoints {
		if err := validateHTTPURL(e.env, e.raw); err != nil {
			return err
		}
	}

	if c.Geocoder.Timeout <= 0 || c.OpenTripMap.Timeout <= 0 || c.Unsplash.Timeout <= 0 {
		return fmt.Errorf("provider timeouts must be positive")
	}
	if c.Geocoder.RatePerSecond <= 0 {
		return fmt.Errorf("NOMINATIM_RATE must be positive")
	}
	if c.OpenTripMap.MaxDetailed < 0 {
		return fmt.Errorf("OPENTRIPMAP_DETAILS must not be negative")
	}
	if c.OpenTripMap.DetailTTL <= 0 || c.OpenTripMap.FailureTTL <= 0 {
		return fmt.Errorf("OpenTripMap cache TTLs must be positive")
	}
	if c.Unsplash.DisableWindow <= 0 {
		return fmt.Errorf("UNSPLASH_DISABLE_FOR must be positive")
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, u.Scheme)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.Radius <= 0 {
		return fmt.Errorf("RECOMMEND_RADIUS must be positive")
	}
	if r.MaxLimit < 1 || r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_LIMIT must be between 1 and RECOMMEND_MAX_LIMIT (%d)", r.MaxLimit)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "none":
		if c.Server.Environment == "production" {
			return fmt.Errorf("AUTH_MODE=none is not allowed in production")
		}
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be 'jwt' or 'none', got %q", c.Security.AuthMode)
	}
	if c.Security.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, disabled")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console'")
	}
	return nil
}
