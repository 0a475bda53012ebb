// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Names accepted by SimilarityByName.
const (
	SimilarityPearson  = "pearson"
	SimilarityDistance = "distance"
)

// CommonItems returns the keys rated by both a and b, in ascending order.
// Unknown entities have empty profiles.
func CommonItems(m RatingMatrix, a, b string) []string {
	pa, pb := m[a], m[b]
	common := make([]string, 0, min(len(pa), len(pb)))
	for item := range pa {
		if _, ok := pb[item]; ok {
			common = append(common, item)
		}
	}
	slices.Sort(common)
	return common
}

// DistanceSimilarity returns 1/(1+d) where d is the sum of squared rating
// differences over the common items, or 0 when a and b share no items.
func DistanceSimilarity(m RatingMatrix, a, b string) float64 {
	common := CommonItems(m, a, b)
	if len(common) == 0 {
		return 0
	}

	pa, pb := m[a], m[b]
	var d float64
	for _, item := range common {
		diff := pa[item] - pb[item]
		d += diff * diff
	}
	return 1 / (1 + d)
}

// PearsonSimilarity returns the Pearson correlation of a and b over their
// common items. It is 0 with fewer than two common items or when either
// side has no variance.
func PearsonSimilarity(m RatingMatrix, a, b string) float64 {
	common := CommonItems(m, a, b)
	if len(common) < 2 {
		return 0
	}

	pa, pb := m[a], m[b]
	x := make([]float64, len(common))
	y := make([]float64, len(common))
	for i, item := range common {
		x[i] = pa[item]
		y[i] = pb[item]
	}

	if constant(x) || constant(y) {
		return 0
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	// Rounding can push perfectly correlated inputs a hair past 1.
	return math.Max(-1, math.Min(1, r))
}

// constant reports whether every value in v is identical, in which case the
// correlation is undefined.
func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// SimilarityByName resolves a metric name. An empty name selects Pearson.
func SimilarityByName(name string) (SimilarityFunc, error) {
	switch name {
	case "", SimilarityPearson:
		return PearsonSimilarity, nil
	case SimilarityDistance:
		return DistanceSimilarity, nil
	default:
		return nil, newInvalidParamError("similarity", name)
	}
}
