// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/critics/internal/config"
	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/recommend"
	ws "github.com/tomtom215/critics/internal/websocket"
)

// Version is reported by the health endpoint. It is set at build time.
var Version = "dev"

const (
	defaultRequestTimeout = 10 * time.Second
	defaultRebuildTimeout = 10 * time.Minute
)

// Recommender is the engine surface the handlers use.
type Recommender interface {
	RecommendForUser(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	SimilarItems(ctx context.Context, item string, k int) ([]recommend.Recommendation, error)
	SimilarUsers(ctx context.Context, user string, k int, similarity string) ([]recommend.Scored, error)
	StartRebuild(ctx context.Context) (<-chan error, error)
	Status() recommend.Status
}

// Handler serves the HTTP API.
type Handler struct {
	engine    Recommender
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a Handler. hub and cfg may be nil; the WebSocket
// endpoint then reports 503 and timeouts use their defaults.
func NewHandler(engine Recommender, hub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		wsHub:     hub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// requestContext bounds engine calls by the server timeout.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := defaultRequestTimeout
	if h.config != nil && h.config.Server.Timeout > 0 {
		timeout = h.config.Server.Timeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

func (h *Handler) rebuildTimeout() time.Duration {
	if h.config != nil && h.config.Rebuild.Timeout > 0 {
		return h.config.Rebuild.Timeout
	}
	return defaultRebuildTimeout
}

// WebSocket upgrades the connection and streams rebuild events.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts origins listed in server.cors_origins.
// Requests without an Origin header are rejected since browsers always
// send one.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
