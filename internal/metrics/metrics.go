// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Rebuild Metrics
	RebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "critics_rebuild_duration_seconds",
			Help:    "Duration of item similarity table rebuilds in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	RebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critics_rebuilds_total",
			Help: "Total number of rebuilds by outcome",
		},
		[]string{"status"}, // "success", "error", "skipped"
	)

	RebuildItemsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "critics_rebuild_items_processed_total",
			Help: "Total number of items whose neighbors were ranked",
		},
	)

	TableStoreLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critics_table_store_lookups_total",
			Help: "Similarity table snapshot lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	// Dataset Metrics
	DatasetPeople = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "critics_dataset_people",
			Help: "Number of people in the loaded rating matrix",
		},
	)

	DatasetItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "critics_dataset_items",
			Help: "Number of distinct items in the loaded rating matrix",
		},
	)

	DatasetRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "critics_dataset_ratings",
			Help: "Number of ratings in the loaded rating matrix",
		},
	)

	TableVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "critics_table_version",
			Help: "Version of the active item similarity table",
		},
	)

	// Recommendation Metrics
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "critics_recommend_duration_seconds",
			Help:    "Recommendation computation latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"}, // "user", "item", "similar_items", "similar_users"
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critics_recommend_errors_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"operation"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "critics_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "critics_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages broadcast",
		},
		[]string{"type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the in-process bus",
		},
		[]string{"topic", "status"},
	)
)

// RecordEventPublish records a publish attempt on the event bus.
func RecordEventPublish(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(topic, status).Inc()
}

// RecordRebuild records the outcome of a rebuild.
func RecordRebuild(duration time.Duration, err error) {
	if err != nil {
		RebuildsTotal.WithLabelValues("error").Inc()
		return
	}
	RebuildsTotal.WithLabelValues("success").Inc()
	RebuildDuration.Observe(duration.Seconds())
}

// RecordRebuildSkipped records a rebuild rejected because another was running.
func RecordRebuildSkipped() {
	RebuildsTotal.WithLabelValues("skipped").Inc()
}

// RecordTableStoreLookup records a snapshot lookup. hit is ignored when err is set.
func RecordTableStoreLookup(hit bool, err error) {
	switch {
	case err != nil:
		TableStoreLookups.WithLabelValues("error").Inc()
	case hit:
		TableStoreLookups.WithLabelValues("hit").Inc()
	default:
		TableStoreLookups.WithLabelValues("miss").Inc()
	}
}

// UpdateDatasetGauges sets the dataset size gauges and the table version.
func UpdateDatasetGauges(people, items, ratings, version int) {
	DatasetPeople.Set(float64(people))
	DatasetItems.Set(float64(items))
	DatasetRatings.Set(float64(ratings))
	TableVersion.Set(float64(version))
}

// RecordRecommend records the latency of a recommendation operation.
func RecordRecommend(operation string, duration time.Duration, err error) {
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		RecommendErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCacheLookup records a recommendation cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
