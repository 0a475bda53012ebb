// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import "fmt"

// GetRecommendations predicts ratings for the items person has not rated
// (absent, or rated exactly 0) as the similarity-weighted average of the
// ratings given by everyone with a strictly positive similarity to person.
//
// A nil sim selects PearsonSimilarity. The result is sorted descending by
// score and then by descending item ID.
func GetRecommendations(m RatingMatrix, person string, sim SimilarityFunc) ([]Scored, error) {
	target, ok := m[person]
	if !ok {
		return nil, unknownEntity("person", person)
	}
	if sim == nil {
		sim = PearsonSimilarity
	}

	totals := make(map[string]float64)
	simSums := make(map[string]float64)

	// Sorted iteration keeps the floating point sums reproducible.
	for _, other := range m.Entities() {
		if other == person {
			continue
		}
		s := sim(m, person, other)
		if s <= 0 {
			continue
		}
		for item, rating := range m[other] {
			if r, rated := target[item]; rated && r != 0 {
				continue
			}
			totals[item] += rating * s
			simSums[item] += s
		}
	}

	rankings := make([]Scored, 0, len(totals))
	for item, total := range totals {
		weight := simSums[item]
		if weight == 0 {
			panic(fmt.Sprintf("recommend: zero similarity sum for item %q", item))
		}
		rankings = append(rankings, Scored{Score: total / weight, ID: item})
	}

	sortScored(rankings)
	return rankings, nil
}
