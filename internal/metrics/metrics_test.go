// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "trips"))

	RecordDBQuery("SELECT", "trips", 5*time.Millisecond, nil)
	RecordDBQuery("SELECT", "trips", 5*time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "trips"))
	if after-before != 1 {
		t.Errorf("DBQueryErrors delta = %v, want 1", after-before)
	}
}

func TestRecordProviderCall(t *testing.T) {
	c := ProviderRequests.WithLabelValues("unsplash", "search", "ok")
	before := testutil.ToFloat64(c)

	RecordProviderCall("unsplash", "search", "ok", 120*time.Millisecond)
	RecordProviderCall("unsplash", "search", "ok", 80*time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("ProviderRequests delta = %v, want 2", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	c := CacheLookups.WithLabelValues("place_detail", "negative_hit")
	before := testutil.ToFloat64(c)

	RecordCacheLookup("place_detail", "negative_hit")

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("CacheLookups delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func histogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	m, ok := h.(prometheus.Metric)
	if !ok {
		t.Fatal("observer is not a metric")
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	h := APIRequestDuration.WithLabelValues("GET", "/api/v1/trips/{tripID}/recommendations")
	before := histogramCount(t, h)

	RecordAPIRequest("GET", "/api/v1/trips/{tripID}/recommendations", "200", 40*time.Millisecond)

	if got := histogramCount(t, h) - before; got != 1 {
		t.Errorf("APIRequestDuration sample delta = %d, want 1", got)
	}
}
