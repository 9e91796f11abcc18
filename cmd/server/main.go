// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package main is the entry point for the Wayfarer server.
//
// Wayfarer recommends destinations for group trips. For each trip it geocodes
// the trip city, asks OpenTripMap (or Overpass as a fallback) for places that
// match the group's shared interests, enriches them with details and images,
// and lets members save the ones they like.
//
// # Startup order
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging
//  3. DuckDB, schema and the interest catalog
//  4. Key-value store (badger or memory) for the detail cache and flags
//  5. Providers: Nominatim, OpenTripMap, Overpass, Unsplash
//  6. Recommender, buddy matcher, event bus, destination service
//  7. HTTP API under the supervisor tree
//
// # Example
//
//	export AUTH_MODE=none
//	export OPENTRIPMAP_API_KEY=...
//	export UNSPLASH_ACCESS_KEY=...
//	./wayfarer
//
// SIGINT and SIGTERM stop the tree; in-flight requests get the configured
// shutdown timeout and the database is checkpointed before exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/wayfarer/internal/api"
	"github.com/tomtom215/wayfarer/internal/auth"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/database"
	"github.com/tomtom215/wayfarer/internal/destinations"
	"github.com/tomtom215/wayfarer/internal/events"
	"github.com/tomtom215/wayfarer/internal/geocode"
	"github.com/tomtom215/wayfarer/internal/imagery"
	"github.com/tomtom215/wayfarer/internal/kvstore"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/matching"
	"github.com/tomtom215/wayfarer/internal/places"
	"github.com/tomtom215/wayfarer/internal/recommend"
	"github.com/tomtom215/wayfarer/internal/supervisor"
	"github.com/tomtom215/wayfarer/internal/supervisor/services"
)

// supervisedStore is a key-value backend with a maintenance loop.
type supervisedStore interface {
	kvstore.Store
	suture.Service
}

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Wayfarer stopped with an error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("kv_backend", cfg.KV.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("opentripmap", cfg.OpenTripMap.APIKey != "").
		Bool("unsplash", cfg.Unsplash.AccessKey != "").
		Msg("Starting Wayfarer")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	seeded, err := db.SeedInterests(context.Background(), database.DefaultInterests)
	if err != nil {
		return fmt.Errorf("seed interests: %w", err)
	}
	logging.Info().Int("new_interests", seeded).Msg("Database initialized")

	kv, err := openKV(cfg.KV)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing key-value store")
		}
	}()

	// Providers.
	otm := places.NewOpenTripMap(cfg.OpenTripMap)
	source := places.NewSource(otm, places.NewOverpass(cfg.Overpass))
	enricher := places.NewEnricher(otm, places.NewDetailCache(kv, cfg.OpenTripMap.DetailTTL, cfg.OpenTripMap.FailureTTL))
	unsplash := imagery.NewUnsplash(cfg.Unsplash)
	images := imagery.NewResolver(unsplash, unsplash.Configured(), db, kv, cfg.Unsplash.DisableWindow)

	recommender := recommend.New(db, geocode.NewNominatim(cfg.Geocoder), source, enricher, images, recommend.Config{
		Radius:      cfg.Recommend.Radius,
		Limit:       cfg.Recommend.DefaultLimit,
		MaxDetailed: cfg.OpenTripMap.MaxDetailed,
	})

	bus, err := events.NewBus(events.DefaultBusConfig())
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}
	events.NewNotifier(logging.WithComponent("notifier")).Register(bus)

	authMiddleware, err := newAuthMiddleware(&cfg.Security)
	if err != nil {
		return err
	}

	handler := api.NewHandler(api.Deps{
		Trips:        db,
		Recommender:  recommender,
		Stored:       db,
		Destinations: destinations.NewService(db, bus),
		Buddies:      matching.NewMatcher(db),
		Images:       images,
		Pinger:       db,
	}, cfg.Recommend)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, authMiddleware, api.ChiMiddlewareConfigFrom(&cfg.Security)),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout * 2,
		IdleTimeout:       cfg.Server.Timeout * 4,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddStorageService(kv)
	tree.AddStorageService(services.NewCheckpointService(db, 0, logging.WithComponent("supervisor")))
	tree.AddMessagingService(bus)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	err = tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logging.Info().Msg("Wayfarer stopped")
	return nil
}

func openKV(cfg config.KVConfig) (supervisedStore, error) {
	switch cfg.Backend {
	case "memory":
		return kvstore.NewMemory(cfg.GCInterval), nil
	case "badger":
		b, err := kvstore.OpenBadger(cfg.Path, cfg.GCInterval)
		if err != nil {
			return nil, fmt.Errorf("open badger at %s: %w", cfg.Path, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q", cfg.Backend)
	}
}

func newAuthMiddleware(sec *config.SecurityConfig) (*auth.Middleware, error) {
	if sec.AuthMode == auth.ModeNone {
		logging.Warn().Msg("Authentication is disabled; callers are identified by the X-User-ID header")
		return auth.NewMiddleware(nil, auth.ModeNone), nil
	}
	jwtManager, err := auth.NewJWTManager(sec)
	if err != nil {
		return nil, fmt.Errorf("configure JWT: %w", err)
	}
	return auth.NewMiddleware(jwtManager, auth.ModeJWT), nil
}
