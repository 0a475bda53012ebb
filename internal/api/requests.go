// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/critics/internal/models"
)

// RecommendationsParams are the inputs of GET /recommendations/{userID}.
type RecommendationsParams struct {
	User       string `query:"user" validate:"required,max=256"`
	Mode       string `query:"mode" validate:"mode"`
	K          int    `query:"k" validate:"min=0,max=1000"`
	Similarity string `query:"similarity" validate:"similarity"`
}

// SimilarItemsParams are the inputs of GET /similar/items/{itemID}.
type SimilarItemsParams struct {
	Item string `query:"item" validate:"required,max=256"`
	K    int    `query:"k" validate:"min=0,max=1000"`
}

// SimilarUsersParams are the inputs of GET /similar/users/{userID}.
type SimilarUsersParams struct {
	User       string `query:"user" validate:"required,max=256"`
	K          int    `query:"k" validate:"min=0,max=1000"`
	Similarity string `query:"similarity" validate:"similarity"`
}

// pathParam returns the unescaped chi URL parameter.
func pathParam(r *http.Request, name string) (string, *models.APIError) {
	raw := chi.URLParam(r, name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("%s is not a valid path segment", name),
		}
	}
	return value, nil
}

// queryInt parses an optional integer query parameter. Absent means zero.
func queryInt(r *http.Request, key string) (int, *models.APIError) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("%s must be an integer", key),
			Details: map[string]interface{}{"field": key, "value": value},
		}
	}
	return n, nil
}

func parseRecommendationsParams(r *http.Request) (RecommendationsParams, *models.APIError) {
	user, apiErr := pathParam(r, "userID")
	if apiErr != nil {
		return RecommendationsParams{}, apiErr
	}
	k, apiErr := queryInt(r, "k")
	if apiErr != nil {
		return RecommendationsParams{}, apiErr
	}

	params := RecommendationsParams{
		User:       user,
		Mode:       r.URL.Query().Get("mode"),
		K:          k,
		Similarity: r.URL.Query().Get("similarity"),
	}
	return params, validateRequest(&params)
}

func parseSimilarItemsParams(r *http.Request) (SimilarItemsParams, *models.APIError) {
	item, apiErr := pathParam(r, "itemID")
	if apiErr != nil {
		return SimilarItemsParams{}, apiErr
	}
	k, apiErr := queryInt(r, "k")
	if apiErr != nil {
		return SimilarItemsParams{}, apiErr
	}

	params := SimilarItemsParams{Item: item, K: k}
	return params, validateRequest(&params)
}

func parseSimilarUsersParams(r *http.Request) (SimilarUsersParams, *models.APIError) {
	user, apiErr := pathParam(r, "userID")
	if apiErr != nil {
		return SimilarUsersParams{}, apiErr
	}
	k, apiErr := queryInt(r, "k")
	if apiErr != nil {
		return SimilarUsersParams{}, apiErr
	}

	params := SimilarUsersParams{
		User:       user,
		K:          k,
		Similarity: r.URL.Query().Get("similarity"),
	}
	return params, validateRequest(&params)
}
