// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newBadgerForTest(t *testing.T) *Badger {
	t.Helper()
	b, err := OpenBadger(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// storeContract exercises behavior both backends must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get(k) = %q, %v; want v1", got, err)
	}

	if err := s.Set(ctx, "k", []byte("v2"), time.Hour); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "k")
	if string(got) != "v2" {
		t.Errorf("Get(k) after overwrite = %q, want v2", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if Exists(ctx, s, "k") {
		t.Error("key still exists after Delete")
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key returned %v", err)
	}

	type payload struct {
		Name string `json:"name"`
	}
	if err := SetJSON(ctx, s, "json", payload{Name: "Belem Tower"}, 0); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var p payload
	if err := GetJSON(ctx, s, "json", &p); err != nil || p.Name != "Belem Tower" {
		t.Errorf("GetJSON = %+v, %v", p, err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemory(time.Minute))
}

func TestBadgerStore(t *testing.T) {
	storeContract(t, newBadgerForTest(t))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "short", []byte("x"), time.Minute)
	_ = m.Set(ctx, "long", []byte("y"), time.Hour)
	_ = m.Set(ctx, "forever", []byte("z"), 0)

	now = now.Add(2 * time.Minute)

	if Exists(ctx, m, "short") {
		t.Error("short-lived entry should have expired")
	}
	if !Exists(ctx, m, "long") || !Exists(ctx, m, "forever") {
		t.Error("unexpired entries should remain")
	}

	now = now.Add(2 * time.Hour)
	if removed := m.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemoryExpiredGetKeepsConcurrentSet(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }
	_ = m.Set(ctx, "flag", []byte("old"), time.Minute)

	// A writer replaces the expired flag between Get's read and its delete.
	m.now = func() time.Time {
		m.now = func() time.Time { return start.Add(2 * time.Minute) }
		_ = m.Set(ctx, "flag", []byte("new"), time.Hour)
		return start.Add(2 * time.Minute)
	}

	got, err := m.Get(ctx, "flag")
	if err != nil || string(got) != "new" {
		t.Errorf("Get = %q, %v; want the fresh value", got, err)
	}
	if !Exists(ctx, m, "flag") {
		t.Error("fresh entry was deleted by the expired read")
	}
}

func TestBadgerTTL(t *testing.T) {
	b := newBadgerForTest(t)
	ctx := context.Background()

	// Badger TTLs have one-second resolution.
	if err := b.Set(ctx, "flag", []byte("1"), time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !Exists(ctx, b, "flag") {
		t.Fatal("flag should exist immediately after Set")
	}
	time.Sleep(2100 * time.Millisecond)
	if Exists(ctx, b, "flag") {
		t.Error("flag should have expired")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	m := NewMemory(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
