// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/models"
)

// Health handles GET /api/v1/health. It always answers 200; status is
// "healthy" once a dataset is loaded and "starting" before.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()

	health := models.HealthStatus{
		Status:        "starting",
		Version:       Version,
		Loaded:        status.Loaded,
		Rebuilding:    status.IsRebuilding,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if status.Loaded {
		health.Status = "healthy"
	}
	if h.wsHub != nil {
		health.WSClients = h.wsHub.GetClientCount()
	}

	respondSuccess(w, health, models.Metadata{})
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.engine.Status(), models.Metadata{})
}

// Rebuild handles POST /api/v1/rebuild. The rebuild outlives the request
// and is bounded by rebuild.timeout.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.rebuildTimeout())

	done, err := h.engine.StartRebuild(ctx)
	if err != nil {
		cancel()
		respondEngineError(w, r, err)
		return
	}

	logger := logging.Ctx(r.Context())
	logger.Info().Msg("manual rebuild started")
	go func() {
		defer cancel()
		if err := <-done; err != nil {
			logger.Error().Err(err).Msg("manual rebuild failed")
			return
		}
		logger.Info().Msg("manual rebuild completed")
	}()

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     models.RebuildAccepted{Started: true, StartedAt: time.Now()},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
