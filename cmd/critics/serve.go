// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/critics/internal/api"
	"github.com/tomtom215/critics/internal/events"
	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/recommend"
	"github.com/tomtom215/critics/internal/supervisor"
	"github.com/tomtom215/critics/internal/supervisor/services"
	ws "github.com/tomtom215/critics/internal/websocket"
)

// runServe starts the supervisor tree and blocks until ctx is canceled.
//
// Layers:
//
//	data       RebuildService (startup load, periodic reload)
//	messaging  WebSocket hub, rebuild event forwarder
//	api        HTTP server
func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs, g := newFlagSet("serve", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(g, stderr)
	if err != nil {
		return err
	}

	logger.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("addr", cfg.Server.Addr()).
		Bool("store_enabled", cfg.Store.Enabled).
		Bool("rebuild_on_startup", cfg.Rebuild.OnStartup).
		Dur("rebuild_interval", cfg.Rebuild.Interval).
		Msg("starting critics")

	bus := events.NewBus(events.DefaultConfig(), logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}()

	engine, closeStore, err := newEngine(cfg, logger, recommend.WithEventPublisher(bus))
	if err != nil {
		return err
	}
	defer closeStore()

	hub := ws.NewHub()
	handler := api.NewHandler(engine, hub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(cfg.Server)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewRebuildService(engine, services.RebuildServiceConfig{
		OnStartup: cfg.Rebuild.OnStartup,
		Interval:  cfg.Rebuild.Interval,
		Timeout:   cfg.Rebuild.Timeout,
	}, logger))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(events.NewForwarder(bus, hub, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logger.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one result once the tree stops.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logger.Info().Msg("critics stopped")
	return nil
}
