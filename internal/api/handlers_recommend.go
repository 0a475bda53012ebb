// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/models"
	"github.com/tomtom215/critics/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations/{userID}.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	params, apiErr := parseRecommendationsParams(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	// Validated above.
	mode, _ := recommend.ParseMode(params.Mode)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.engine.RecommendForUser(ctx, recommend.Request{
		User:       params.User,
		Mode:       mode,
		K:          params.K,
		Similarity: params.Similarity,
		RequestID:  logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, resp, models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: resp.Metadata.LatencyMS,
		Cached:      resp.Metadata.CacheHit,
	})
}

// SimilarItems handles GET /api/v1/similar/items/{itemID}.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, apiErr := parseSimilarItemsParams(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.engine.SimilarItems(ctx, params.Item, params.K)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, models.SimilarItemsResult{Item: params.Item, Items: items}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// SimilarUsers handles GET /api/v1/similar/users/{userID}.
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, apiErr := parseSimilarUsersParams(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	users, err := h.engine.SimilarUsers(ctx, params.User, params.K, params.Similarity)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	similarity := params.Similarity
	if similarity == "" && h.config != nil {
		similarity = h.config.Recommend.Similarity
	}
	respondSuccess(w, models.SimilarUsersResult{User: params.User, Similarity: similarity, Users: users}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}
