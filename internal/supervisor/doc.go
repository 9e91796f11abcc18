// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package supervisor runs Wayfarer's long-running services under a suture v4
tree with automatic restart and graceful shutdown.

	wayfarer
	├── storage-layer
	│   ├── kvstore-badger-gc | kvstore-memory-janitor
	│   └── db-checkpoint
	├── messaging-layer
	│   └── event-bus
	└── api-layer
	    └── http-server

A failing service is restarted with backoff inside its own layer; the other
layers keep running. Supervisor events are logged through sutureslog into the
zerolog logger (see logging.NewSlogLogger).

Usage:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddStorageService(kv)
	tree.AddMessagingService(bus)
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}
*/
package supervisor
