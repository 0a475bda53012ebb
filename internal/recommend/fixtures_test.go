// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// critics is a small film-rating dataset with well-known reference results.
func critics() RatingMatrix {
	return RatingMatrix{
		"Lisa Rose": {
			"Lady in the Water": 2.5, "Snakes on a Plane": 3.5, "Just My Luck": 3.0,
			"Superman Returns": 3.5, "You, Me and Dupree": 2.5, "The Night Listener": 3.0,
		},
		"Gene Seymour": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 3.5, "Just My Luck": 1.5,
			"Superman Returns": 5.0, "The Night Listener": 3.0, "You, Me and Dupree": 3.5,
		},
		"Michael Phillips": {
			"Lady in the Water": 2.5, "Snakes on a Plane": 3.0, "Superman Returns": 3.5,
			"The Night Listener": 4.0,
		},
		"Claudia Puig": {
			"Snakes on a Plane": 3.5, "Just My Luck": 3.0, "The Night Listener": 4.5,
			"Superman Returns": 4.0, "You, Me and Dupree": 2.5,
		},
		"Mick LaSalle": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 4.0, "Just My Luck": 2.0,
			"Superman Returns": 3.0, "The Night Listener": 3.0, "You, Me and Dupree": 2.0,
		},
		"Jack Matthews": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 4.0, "The Night Listener": 3.0,
			"Superman Returns": 5.0, "You, Me and Dupree": 3.5,
		},
		"Toby": {
			"Snakes on a Plane": 4.5, "You, Me and Dupree": 1.0, "Superman Returns": 4.0,
		},
	}
}

// tiny is the three-person example used throughout the tests.
func tiny() RatingMatrix {
	return RatingMatrix{
		"A": {"x": 5, "y": 3},
		"B": {"x": 4, "y": 3},
		"C": {"y": 4, "z": 5},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// assertScored compares rankings by ID order and approximate score.
func assertScored(t *testing.T, got, want []Scored) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d results %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].ID != want[i].ID || !almostEqual(got[i].Score, want[i].Score) {
			t.Errorf("result[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func isSortedDescending(s []Scored) bool {
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		if prev.Score < cur.Score || (prev.Score == cur.Score && prev.ID < cur.ID) {
			return false
		}
	}
	return true
}
