// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package models defines the wire types shared by the HTTP API and its
// clients.
package models

import (
	"time"

	"github.com/tomtom215/critics/internal/recommend"
)

// APIResponse is the envelope for every HTTP API response.
//
// Status is "success" with Data set, or "error" with Error set.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"items": [{"id": "50", "title": "Star Wars (1977)", "score": 4.91}]},
//	  "metadata": {"timestamp": "2026-01-15T10:30:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-01-15T10:30:00Z"},
//	  "error": {"code": "NOT_FOUND", "message": "unknown user"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
//
// QueryTimeMS is the engine time in milliseconds. Cached is set when the
// result came from the engine's result cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the error body of a failed request.
//
// Common error codes:
//   - VALIDATION_ERROR: query parameters failed validation
//   - NOT_FOUND: unknown user or item
//   - NOT_READY: no dataset loaded yet
//   - REBUILD_IN_PROGRESS: a rebuild is already running
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Loaded        bool    `json:"loaded"`
	Rebuilding    bool    `json:"rebuilding"`
	WSClients     int     `json:"websocket_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// RebuildAccepted is returned when a manual rebuild starts.
type RebuildAccepted struct {
	Started   bool      `json:"started"`
	StartedAt time.Time `json:"started_at"`
}

// SimilarItemsResult lists items similar to Item.
type SimilarItemsResult struct {
	Item  string                     `json:"item"`
	Items []recommend.Recommendation `json:"items"`
}

// SimilarUsersResult lists people similar to User.
type SimilarUsersResult struct {
	User       string             `json:"user"`
	Similarity string             `json:"similarity"`
	Users      []recommend.Scored `json:"users"`
}
