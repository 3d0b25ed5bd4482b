// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Package metrics provides Prometheus instrumentation for the ingestion
// pipeline and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics

	// EventsTotal counts pipeline outcomes per admitted/rejected class.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubtally_events_total",
			Help: "Total button events processed, by pipeline outcome",
		},
		[]string{"outcome"}, // "created", "updated", "duplicate", "stale"
	)

	// ResolutionFailures counts events rejected because no session could be
	// determined.
	ResolutionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubtally_resolution_failures_total",
			Help: "Total events rejected with unresolved session identity",
		},
	)

	// StoreConflicts counts transactions aborted by concurrent writers.
	StoreConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubtally_store_conflicts_total",
			Help: "Total store transactions aborted due to write conflicts",
		},
	)

	// API metrics

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hubtally_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubtally_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hubtally_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)
)

// RecordOutcome records one pipeline outcome.
func RecordOutcome(outcome string) {
	EventsTotal.WithLabelValues(outcome).Inc()
}

// RecordAPIRequest records latency and count for a completed API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
