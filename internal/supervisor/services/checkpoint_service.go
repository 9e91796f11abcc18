// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Checkpointer flushes the database write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// defaultCheckpointInterval is used when none is configured.
const defaultCheckpointInterval = 15 * time.Minute

// checkpointTimeout bounds a single checkpoint.
const checkpointTimeout = 2 * time.Minute

// CheckpointService periodically checkpoints the database so that the WAL
// does not grow without bound between restarts. A final checkpoint runs on
// shutdown.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	if interval <= 0 {
		interval = defaultCheckpointInterval
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		logger:   logger.With().Str("service", "checkpoint").Logger(),
		name:     "db-checkpoint",
	}
}

// Serve implements suture.Service. Checkpoint failures are logged and never
// end the service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx is already canceled; the final checkpoint needs its own.
			finalCtx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
			s.checkpoint(finalCtx)
			cancel()
			return ctx.Err()

		case <-ticker.C:
			s.checkpoint(ctx)
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()

	start := time.Now()
	if err := s.db.Checkpoint(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("database checkpoint failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("database checkpoint complete")
}

// String returns the service name for logging.
func (s *CheckpointService) String() string {
	return s.name
}
