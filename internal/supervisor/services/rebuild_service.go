// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/critics/internal/recommend"
)

// Rebuilder is satisfied by *recommend.Engine.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// RebuildServiceConfig holds configuration for the rebuild service.
type RebuildServiceConfig struct {
	// OnStartup rebuilds as soon as the service starts.
	OnStartup bool

	// Interval between scheduled rebuilds. Zero disables them.
	Interval time.Duration

	// Timeout bounds a single rebuild.
	// Default: 10m
	Timeout time.Duration
}

// RebuildService loads the dataset and rebuilds the item similarity table
// on startup and on a schedule.
//
// A failed rebuild is logged and leaves the previous dataset serving; it
// does not fail the service, so the supervisor never restart-loops on a
// bad data file.
type RebuildService struct {
	engine Rebuilder
	config RebuildServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRebuildService creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewRebuildService(engine Rebuilder, cfg RebuildServiceConfig, logger zerolog.Logger) *RebuildService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &RebuildService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "rebuild").Logger(),
		name:   "rebuild-service",
	}
}

// Serve implements suture.Service.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("rebuild service starting")

	if s.config.OnStartup {
		s.rebuild(ctx, "startup")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.rebuild(ctx, "scheduled")
		}
	}
}

func (s *RebuildService) rebuild(ctx context.Context, trigger string) {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	err := s.engine.Rebuild(rebuildCtx)
	switch {
	case err == nil:
		s.logger.Info().Str("trigger", trigger).Dur("duration", time.Since(start)).Msg("rebuild complete")
	case errors.Is(err, recommend.ErrRebuildInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("rebuild skipped, another is running")
	case ctx.Err() != nil:
		// Shutting down.
	default:
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("rebuild failed, keeping previous dataset")
	}
}

// String implements fmt.Stringer.
func (s *RebuildService) String() string {
	return s.name
}
