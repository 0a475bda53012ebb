// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"context"
	"time"
)

// RebuildPhase identifies a point in the rebuild lifecycle.
type RebuildPhase string

const (
	PhaseStarted   RebuildPhase = "started"
	PhaseProgress  RebuildPhase = "progress"
	PhaseCompleted RebuildPhase = "completed"
	PhaseFailed    RebuildPhase = "failed"
)

// RebuildEvent reports rebuild progress to observers such as the
// WebSocket hub.
type RebuildEvent struct {
	Phase        RebuildPhase `json:"phase"`
	Done         int          `json:"done,omitempty"`
	Total        int          `json:"total,omitempty"`
	TableVersion int          `json:"table_version,omitempty"`
	Fingerprint  string       `json:"fingerprint,omitempty"`
	FromStore    bool         `json:"from_store,omitempty"`
	DurationMS   int64        `json:"duration_ms,omitempty"`
	Error        string       `json:"error,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

// EventPublisher receives rebuild events. Publishing failures are logged
// and never fail the rebuild.
type EventPublisher interface {
	PublishRebuildEvent(ctx context.Context, event RebuildEvent) error
}

// DataSource supplies the dataset the engine serves.
type DataSource interface {
	Load(ctx context.Context) (*Dataset, error)
}

// TableStore keeps item similarity tables across restarts. Keys identify
// both the ratings and the parameters the table was built with.
type TableStore interface {
	GetTable(ctx context.Context, key string) (ItemSimilarityTable, bool, error)
	PutTable(ctx context.Context, key string, table ItemSimilarityTable) error
}
