// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Command imagery-status reports the image provider's state for operators.
//
//	imagery-status           print configuration, disable flag and cache counts
//	imagery-status -reset    clear the disable flag first
//	imagery-status -test     run one uncached search for "beach"
//
// It reads the same configuration as the server and must run while the
// server is stopped when the badger backend is used, since badger holds an
// exclusive directory lock.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/database"
	"github.com/tomtom215/wayfarer/internal/imagery"
	"github.com/tomtom215/wayfarer/internal/kvstore"
	"github.com/tomtom215/wayfarer/internal/logging"
)

func main() {
	reset := flag.Bool("reset", false, "clear the provider disable flag")
	probe := flag.Bool("test", false, "run a live search to verify the access key")
	query := flag.String("query", "beach", "query used by -test")
	flag.Parse()

	if err := run(*reset, *probe, *query); err != nil {
		fmt.Fprintln(os.Stderr, "imagery-status:", err)
		os.Exit(1)
	}
}

func run(reset, probe bool, query string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: "warn", Format: "console"})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var kv kvstore.Store
	if cfg.KV.Backend == "badger" {
		kv, err = kvstore.OpenBadger(cfg.KV.Path, cfg.KV.GCInterval)
		if err != nil {
			return err
		}
	} else {
		kv = kvstore.NewMemory(cfg.KV.GCInterval)
	}
	defer func() { _ = kv.Close() }()

	unsplash := imagery.NewUnsplash(cfg.Unsplash)
	resolver := imagery.NewResolver(unsplash, unsplash.Configured(), db, kv, cfg.Unsplash.DisableWindow)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if reset {
		if err := resolver.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Println("disable flag cleared")
	}

	if probe {
		url, err := resolver.Probe(ctx, query)
		switch {
		case errors.Is(err, imagery.ErrNotConfigured):
			fmt.Println("probe: UNSPLASH_ACCESS_KEY is not set")
		case errors.Is(err, imagery.ErrQuota):
			fmt.Println("probe: quota exhausted or key rejected; provider disabled")
		case err != nil:
			fmt.Println("probe failed:", err)
		case url == "":
			fmt.Printf("probe: no result for %q\n", query)
		default:
			fmt.Printf("probe: %s\n", url)
		}
	}

	status, err := resolver.Status(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
