// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package events

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

func sampleEvent() *DestinationSaved {
	return &DestinationSaved{
		TripID:        7,
		DestinationID: 3,
		XID:           "W123",
		Name:          "Chapel Bridge",
		SavedBy:       42,
		SavedAt:       time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDestinationSavedValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *DestinationSaved)
		wantErr bool
	}{
		{"valid", func(*DestinationSaved) {}, false},
		{"no trip", func(e *DestinationSaved) { e.TripID = 0 }, true},
		{"no destination", func(e *DestinationSaved) { e.DestinationID = 0 }, true},
		{"no xid", func(e *DestinationSaved) { e.XID = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := sampleEvent()
			tt.mutate(e)
			_, err := MarshalDestinationSaved(e)
			if (err != nil) != tt.wantErr {
				t.Errorf("MarshalDestinationSaved() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBusDeliversDestinationSaved(t *testing.T) {
	bus, err := NewBus(DefaultBusConfig())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}

	received := make(chan *DestinationSaved, 1)
	bus.Handle("test-consumer", TopicDestinationSaved, func(msg *message.Message) error {
		e, err := UnmarshalDestinationSaved(msg.Payload)
		if err != nil {
			return err
		}
		if msg.Metadata.Get(metadataRequestID) != "req-1" {
			t.Errorf("request_id metadata = %q", msg.Metadata.Get(metadataRequestID))
		}
		received <- e
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bus.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = bus.Close()
	})

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(TopicDestinationSaved, "ok"))
	pubCtx := logging.ContextWithRequestID(context.Background(), "req-1")
	if err := bus.PublishDestinationSaved(pubCtx, sampleEvent()); err != nil {
		t.Fatalf("PublishDestinationSaved() error = %v", err)
	}

	select {
	case got := <-received:
		if got.TripID != 7 || got.XID != "W123" || !got.SavedAt.Equal(sampleEvent().SavedAt) {
			t.Errorf("unexpected event: %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}

	after := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(TopicDestinationSaved, "ok"))
	if after-before != 1 {
		t.Errorf("events_published_total{ok} delta = %v, want 1", after-before)
	}
}

func TestBusRejectsInvalidEvent(t *testing.T) {
	bus, err := NewBus(DefaultBusConfig())
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer bus.Close()

	if err := bus.PublishDestinationSaved(context.Background(), &DestinationSaved{}); err == nil {
		t.Error("expected validation error")
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(logging.NewTestLogger(&buf))

	payload, err := MarshalDestinationSaved(sampleEvent())
	if err != nil {
		t.Fatal(err)
	}
	if err := n.HandleDestinationSaved(message.NewMessage(uuid.NewString(), payload)); err != nil {
		t.Fatalf("HandleDestinationSaved() error = %v", err)
	}
	if n.Handled() != 1 {
		t.Errorf("Handled() = %d, want 1", n.Handled())
	}
	if !strings.Contains(buf.String(), `"xid":"W123"`) {
		t.Errorf("log output missing xid: %s", buf.String())
	}

	if err := n.HandleDestinationSaved(message.NewMessage(uuid.NewString(), []byte("{"))); err != nil {
		t.Errorf("malformed payload should be dropped, got %v", err)
	}
	if n.Handled() != 1 {
		t.Errorf("Handled() = %d after malformed payload, want 1", n.Handled())
	}
}
