// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package events

import (
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// Notifier consumes DestinationSaved events and records them in the log
// stream, where trip members' notification delivery picks them up.
type Notifier struct {
	logger  zerolog.Logger
	handled atomic.Int64
}

// NewNotifier creates a Notifier.
func NewNotifier(logger zerolog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Register subscribes the notifier on bus.
func (n *Notifier) Register(bus *Bus) {
	bus.Handle("destination-saved-notifier", TopicDestinationSaved, n.HandleDestinationSaved)
}

// HandleDestinationSaved logs one event. Undecodable payloads are dropped
// rather than retried.
func (n *Notifier) HandleDestinationSaved(msg *message.Message) error {
	e, err := UnmarshalDestinationSaved(msg.Payload)
	if err != nil {
		n.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
		return nil
	}

	n.logger.Info().
		Str("message_id", msg.UUID).
		Str("request_id", msg.Metadata.Get(metadataRequestID)).
		Int64("trip_id", e.TripID).
		Int64("destination_id", e.DestinationID).
		Str("xid", e.XID).
		Str("name", e.Name).
		Int64("saved_by", e.SavedBy).
		Msg("Destination saved to trip")
	n.handled.Add(1)
	return nil
}

// Handled returns the number of events processed.
func (n *Notifier) Handled() int64 {
	return n.handled.Load()
}
