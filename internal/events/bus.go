// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// metadataRequestID carries the originating request ID to consumers.
const metadataRequestID = "request_id"

// BusConfig tunes the in-process bus.
type BusConfig struct {
	// OutputBuffer is the per-subscriber channel buffer.
	OutputBuffer int64
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultBusConfig returns production defaults.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		OutputBuffer:         64,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
	}
}

// Bus is a GoChannel pub/sub with a watermill router dispatching to
// registered handlers. Handlers must be registered before Serve.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewBus creates a Bus.
func NewBus(cfg BusConfig) (*Bus, error) {
	logger := NewLoggerAdapter(logging.WithComponent("events"))

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.OutputBuffer,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          logger,
	}
	router.AddMiddleware(middleware.Recoverer, retry.Middleware)

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// Handle registers a consumer for topic.
func (b *Bus) Handle(name, topic string, h message.NoPublishHandlerFunc) {
	b.router.AddNoPublisherHandler(name, topic, b.pubsub, h)
}

// Serve runs the router until ctx is done. Implements suture.Service.
func (b *Bus) Serve(ctx context.Context) error {
	return b.router.Run(ctx)
}

// String implements fmt.Stringer for supervisor logs.
func (b *Bus) String() string {
	return "event-bus"
}

// Running is closed once all handlers are subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and the pub/sub.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return err
	}
	return b.pubsub.Close()
}

// PublishDestinationSaved publishes e on TopicDestinationSaved. Messages
// published while nothing is subscribed are dropped.
func (b *Bus) PublishDestinationSaved(ctx context.Context, e *DestinationSaved) error {
	payload, err := MarshalDestinationSaved(e)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(TopicDestinationSaved, "invalid").Inc()
		return err
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(metadataRequestID, id)
	}

	if err := b.pubsub.Publish(TopicDestinationSaved, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(TopicDestinationSaved, "error").Inc()
		return fmt.Errorf("publish %s: %w", TopicDestinationSaved, err)
	}
	metrics.EventsPublished.WithLabelValues(TopicDestinationSaved, "ok").Inc()
	return nil
}
