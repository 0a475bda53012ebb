// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"maps"
	"testing"
)

func equalMatrix(a, b RatingMatrix) bool {
	return maps.EqualFunc(a, b, func(x, y RatingProfile) bool {
		return maps.Equal(x, y)
	})
}

func TestTransformPrefs(t *testing.T) {
	got := TransformPrefs(tiny())
	want := RatingMatrix{
		"x": {"A": 5, "B": 4},
		"y": {"A": 3, "B": 3, "C": 4},
		"z": {"C": 5},
	}

	if !equalMatrix(got, want) {
		t.Errorf("TransformPrefs() = %v, want %v", got, want)
	}
}

func TestTransformPrefs_Involution(t *testing.T) {
	tests := []struct {
		name string
		m    RatingMatrix
	}{
		{"tiny", tiny()},
		{"critics", critics()},
		{"zero ratings kept", RatingMatrix{"a": {"x": 0, "y": -1}}},
		{"empty", RatingMatrix{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := TransformPrefs(tt.m)
			if once.Ratings() != tt.m.Ratings() {
				t.Errorf("transpose has %d ratings, want %d", once.Ratings(), tt.m.Ratings())
			}
			if twice := TransformPrefs(once); !equalMatrix(twice, tt.m) {
				t.Errorf("TransformPrefs(TransformPrefs(m)) = %v, want %v", twice, tt.m)
			}
		})
	}
}

func TestTransformPrefs_DoesNotMutate(t *testing.T) {
	m := tiny()
	before := Fingerprint(m)
	out := TransformPrefs(m)
	out["x"]["A"] = 99

	if Fingerprint(m) != before {
		t.Error("TransformPrefs shares or mutates input profiles")
	}
}
