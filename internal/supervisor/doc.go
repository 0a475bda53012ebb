// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

/*
Package supervisor runs the service's long-lived components under a suture
v4 supervisor tree.

# Overview

Services are grouped into three layers so a failure in one does not restart
the others:

	RootSupervisor ("critics")
	├── DataSupervisor ("data-layer")
	│   └── RebuildService        loads the dataset on startup and on rebuild.interval
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService   client registration and broadcast
	│   └── events.Forwarder      rebuild events from the bus to the hub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService     the HTTP API

A crashed service is restarted with backoff. The HTTP API keeps serving the
last loaded dataset while the data layer restarts.

# Logging

Supervisor events (service start, failure, restart, backoff) are emitted
through sutureslog into a log/slog logger. Pass logging.NewSlogLogger() to
route them into the application's zerolog output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewRebuildService(engine, rebuildCfg, logger))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(events.NewForwarder(bus, hub, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
