// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestCommonItems(t *testing.T) {
	m := tiny()
	tests := []struct {
		name string
		a, b string
		want []string
	}{
		{"two shared items", "A", "B", []string{"x", "y"}},
		{"one shared item", "A", "C", []string{"y"}},
		{"symmetric", "C", "A", []string{"y"}},
		{"self", "C", "C", []string{"y", "z"}},
		{"unknown entity", "A", "nobody", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommonItems(m, tt.a, tt.b)
			if !slices.Equal(got, tt.want) {
				t.Errorf("CommonItems(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceSimilarity(t *testing.T) {
	tests := []struct {
		name string
		m    RatingMatrix
		a, b string
		want float64
	}{
		{"one squared unit over two items", tiny(), "A", "B", 0.5},
		{"one squared unit over one item", tiny(), "A", "C", 0.5},
		{"identical profiles", RatingMatrix{"a": {"x": 3}, "b": {"x": 3}}, "a", "b", 1},
		{"no overlap", RatingMatrix{"a": {"x": 3}, "b": {"y": 3}}, "a", "b", 0},
		{"empty profile", RatingMatrix{"a": {}, "b": {"y": 3}}, "a", "b", 0},
		{"reference pair", critics(), "Lisa Rose", "Gene Seymour", 0.14814814814814814},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceSimilarity(tt.m, tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("DistanceSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPearsonSimilarity(t *testing.T) {
	tests := []struct {
		name string
		m    RatingMatrix
		a, b string
		want float64
	}{
		{"perfect positive", tiny(), "A", "B", 1},
		{"single common item", tiny(), "A", "C", 0},
		{"no overlap", RatingMatrix{"a": {"x": 1}, "b": {"y": 2}}, "a", "b", 0},
		{
			"perfect negative",
			RatingMatrix{"a": {"x": 1, "y": 2, "z": 3}, "b": {"x": 3, "y": 2, "z": 1}},
			"a", "b", -1,
		},
		{
			"zero variance is zero not NaN",
			RatingMatrix{"a": {"x": 3, "y": 3, "z": 3}, "b": {"x": 1, "y": 4, "z": 2}},
			"a", "b", 0,
		},
		{
			"fractional constant profile",
			RatingMatrix{"a": {"x": 0.1, "y": 0.1, "z": 0.1}, "b": {"x": 1, "y": 4, "z": 2}},
			"a", "b", 0,
		},
		{"reference pair", critics(), "Lisa Rose", "Gene Seymour", 0.39605901719066977},
		{"reference neighbor", critics(), "Toby", "Lisa Rose", 0.9912407071619304},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PearsonSimilarity(tt.m, tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("PearsonSimilarity(%q, %q) = NaN", tt.a, tt.b)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("PearsonSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	m := critics()
	people := m.Entities()

	for _, a := range people {
		for _, b := range people {
			d1, d2 := DistanceSimilarity(m, a, b), DistanceSimilarity(m, b, a)
			if d1 != d2 {
				t.Errorf("distance(%q, %q) = %v but distance(%q, %q) = %v", a, b, d1, b, a, d2)
			}
			if len(CommonItems(m, a, b)) > 0 && (d1 <= 0 || d1 > 1) {
				t.Errorf("distance(%q, %q) = %v, want in (0, 1]", a, b, d1)
			}

			p1, p2 := PearsonSimilarity(m, a, b), PearsonSimilarity(m, b, a)
			if p1 != p2 {
				t.Errorf("pearson(%q, %q) = %v but pearson(%q, %q) = %v", a, b, p1, b, a, p2)
			}
			if math.IsNaN(p1) || p1 < -1 || p1 > 1 {
				t.Errorf("pearson(%q, %q) = %v, want in [-1, 1]", a, b, p1)
			}
		}
	}
}

func TestSimilarity_DoesNotMutate(t *testing.T) {
	m := tiny()
	before := Fingerprint(m)

	DistanceSimilarity(m, "A", "B")
	PearsonSimilarity(m, "A", "C")
	PearsonSimilarity(m, "A", "missing")

	if after := Fingerprint(m); after != before {
		t.Error("similarity functions mutated the matrix")
	}
	if _, ok := m["missing"]; ok {
		t.Error("lookup of an unknown entity inserted it into the matrix")
	}
}

func TestSimilarityByName(t *testing.T) {
	m := tiny()
	tests := []struct {
		name    string
		input   string
		want    float64 // similarity of A and B under the resolved metric
		wantErr bool
	}{
		{"empty selects pearson", "", 1, false},
		{"pearson", SimilarityPearson, 1, false},
		{"distance", SimilarityDistance, 0.5, false},
		{"unknown", "cosine", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := SimilarityByName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParam) {
					t.Errorf("SimilarityByName(%q) error = %v, want ErrInvalidParam", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SimilarityByName(%q) unexpected error: %v", tt.input, err)
			}
			if got := sim(m, "A", "B"); !almostEqual(got, tt.want) {
				t.Errorf("resolved metric(A, B) = %v, want %v", got, tt.want)
			}
		})
	}
}
