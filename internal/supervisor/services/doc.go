// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

/*
Package services adapts application components to suture.Service.

Each wrapper translates a component's lifecycle into

	Serve(ctx context.Context) error

returning when ctx is canceled, and names itself through fmt.Stringer so
supervisor events identify it.

  - HTTPServerService runs an *http.Server and shuts it down gracefully.
  - WebSocketHubService runs websocket.Hub.RunWithContext.
  - RebuildService loads the dataset on startup and reloads it on a fixed
    interval.

The event forwarder in package events implements suture.Service itself and
needs no wrapper.
*/
package services
