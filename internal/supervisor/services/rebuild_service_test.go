// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/critics/internal/recommend"
)

type countingRebuilder struct {
	calls       atomic.Int32
	err         error
	sawDeadline atomic.Bool
}

func (c *countingRebuilder) Rebuild(ctx context.Context) error {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		c.sawDeadline.Store(true)
	}
	return c.err
}

var (
	_ suture.Service = (*RebuildService)(nil)
	_ Rebuilder      = (*recommend.Engine)(nil)
)

func runRebuildService(t *testing.T, svc *RebuildService, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestNewRebuildService_Defaults(t *testing.T) {
	svc := NewRebuildService(&countingRebuilder{}, RebuildServiceConfig{}, zerolog.Nop())
	if svc.config.Timeout != 10*time.Minute {
		t.Errorf("Timeout = %v, want 10m", svc.config.Timeout)
	}
	if svc.String() != "rebuild-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestRebuildService_Serve(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RebuildServiceConfig
		err      error
		minCalls int32
		maxCalls int32
	}{
		{
			name:     "startup only",
			cfg:      RebuildServiceConfig{OnStartup: true},
			minCalls: 1,
			maxCalls: 1,
		},
		{
			name:     "disabled",
			cfg:      RebuildServiceConfig{},
			minCalls: 0,
			maxCalls: 0,
		},
		{
			name:     "scheduled",
			cfg:      RebuildServiceConfig{Interval: 20 * time.Millisecond},
			minCalls: 2,
			maxCalls: 20,
		},
		{
			name:     "failures keep running",
			cfg:      RebuildServiceConfig{OnStartup: true, Interval: 20 * time.Millisecond},
			err:      errors.New("read ratings: no such file"),
			minCalls: 3,
			maxCalls: 20,
		},
		{
			name:     "in progress is skipped",
			cfg:      RebuildServiceConfig{OnStartup: true},
			err:      recommend.ErrRebuildInProgress,
			minCalls: 1,
			maxCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &countingRebuilder{err: tt.err}
			svc := NewRebuildService(engine, tt.cfg, zerolog.Nop())

			err := runRebuildService(t, svc, 150*time.Millisecond)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
			}

			calls := engine.calls.Load()
			if calls < tt.minCalls || calls > tt.maxCalls {
				t.Errorf("rebuild calls = %d, want [%d, %d]", calls, tt.minCalls, tt.maxCalls)
			}
			if calls > 0 && !engine.sawDeadline.Load() {
				t.Error("rebuild context had no deadline")
			}
		})
	}
}
