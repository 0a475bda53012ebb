// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered with the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Rebuilds:
  - critics_rebuild_duration_seconds: histogram of successful rebuild durations
  - critics_rebuilds_total{status}: rebuild outcomes (success, error, skipped)
  - critics_rebuild_items_processed_total: items ranked across all rebuilds
  - critics_table_store_lookups_total{result}: snapshot store hits and misses

Dataset:
  - critics_dataset_people, critics_dataset_items, critics_dataset_ratings
  - critics_table_version

Recommendations:
  - critics_recommend_duration_seconds{operation}
  - critics_recommend_errors_total{operation}
  - critics_cache_hits_total, critics_cache_misses_total

HTTP and WebSocket:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - websocket_connections_active
  - websocket_messages_sent_total{type}

Events:
  - events_published_total{topic,status}
*/
package metrics
