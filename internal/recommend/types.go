// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"cmp"
	"slices"
	"time"
)

// RatingProfile maps an item (or, once transposed, a person) to a rating.
// A missing key means unrated, which is distinct from a rating of zero.
type RatingProfile map[string]float64

// RatingMatrix maps an entity identifier to its RatingProfile.
type RatingMatrix map[string]RatingProfile

// Entities returns the entity identifiers of the matrix in ascending order.
func (m RatingMatrix) Entities() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Ratings returns the total number of (entity, item, rating) triples.
func (m RatingMatrix) Ratings() int {
	n := 0
	for _, p := range m {
		n += len(p)
	}
	return n
}

// Scored pairs a score with the identifier it was computed for.
// It is used for similarity neighbors and predicted ratings alike.
type Scored struct {
	Score float64 `json:"score"`
	ID    string  `json:"id"`
}

// ItemSimilarityTable maps an item to its most similar items, sorted
// descending by score. It must not be mutated once built.
type ItemSimilarityTable map[string][]Scored

// SimilarityFunc computes the similarity of entities a and b in m.
type SimilarityFunc func(m RatingMatrix, a, b string) float64

// sortScored orders s descending by score, breaking ties by descending ID.
// This mirrors comparing (score, id) tuples in reverse.
func sortScored(s []Scored) {
	slices.SortFunc(s, func(a, b Scored) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

// Mode selects the recommendation strategy for a request.
type Mode int

const (
	// ModeUser scores items from the ratings of similar people.
	ModeUser Mode = iota
	// ModeItem scores items from the precomputed item similarity table.
	ModeItem
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "user"
	case ModeItem:
		return "item"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode. An empty string selects ModeUser.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "user":
		return ModeUser, nil
	case "item":
		return ModeItem, nil
	default:
		return ModeUser, newInvalidParamError("mode", s)
	}
}

// Dataset is what a DataSource hands the engine: ratings keyed by person
// plus an optional item title map used only for presentation.
type Dataset struct {
	Ratings RatingMatrix
	Titles  map[string]string
}

// Recommendation is a scored item resolved for display.
type Recommendation struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Score float64 `json:"score"`
}

// Request describes a recommendation request.
type Request struct {
	// User is the person to recommend for.
	User string `json:"user"`

	// Mode selects user-based or item-based scoring.
	Mode Mode `json:"mode"`

	// K is the number of results to return. Zero uses the configured default.
	K int `json:"k"`

	// Similarity names the metric for user-based scoring ("pearson" or
	// "distance"). Empty uses the configured default. Item-based scoring
	// always reads the precomputed table.
	Similarity string `json:"similarity,omitempty"`

	// RequestID is propagated into logs. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response contains ranked results and metadata about how they were produced.
type Response struct {
	Items    []Recommendation `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains information about how a response was produced.
type ResponseMetadata struct {
	RequestID    string    `json:"request_id"`
	User         string    `json:"user,omitempty"`
	Mode         string    `json:"mode"`
	Similarity   string    `json:"similarity,omitempty"`
	Candidates   int       `json:"candidates"`
	LatencyMS    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	TableVersion int       `json:"table_version"`
	BuiltAt      time.Time `json:"built_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// Status reports the state of the loaded dataset and item similarity table.
type Status struct {
	Loaded         bool      `json:"loaded"`
	IsRebuilding   bool      `json:"is_rebuilding"`
	Progress       int       `json:"progress"`
	TableVersion   int       `json:"table_version"`
	Fingerprint    string    `json:"fingerprint,omitempty"`
	People         int       `json:"people"`
	Items          int       `json:"items"`
	Ratings        int       `json:"ratings"`
	Titles         int       `json:"titles"`
	LastBuiltAt    time.Time `json:"last_built_at"`
	LastDurationMS int64     `json:"last_duration_ms"`
	LastError      string    `json:"last_error,omitempty"`
	TableFromStore bool      `json:"table_from_store"`
	CacheHits      int64     `json:"cache_hits"`
	CacheMisses    int64     `json:"cache_misses"`
	CacheEntries   int       `json:"cache_entries"`
	RequestCount   int64     `json:"request_count"`
	ErrorCount     int64     `json:"error_count"`
}
