// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

// DefaultTopMatches is the result count TopMatches uses when n <= 0.
const DefaultTopMatches = 5

// TopMatches ranks every other entity in m by similarity to target and
// returns the best n, sorted descending by score and then by descending ID.
// Fewer than n results are returned when m has fewer candidates.
//
// A nil sim selects PearsonSimilarity; n <= 0 selects DefaultTopMatches.
func TopMatches(m RatingMatrix, target string, n int, sim SimilarityFunc) ([]Scored, error) {
	if _, ok := m[target]; !ok {
		return nil, unknownEntity("entity", target)
	}
	if n <= 0 {
		n = DefaultTopMatches
	}
	if sim == nil {
		sim = PearsonSimilarity
	}

	scores := make([]Scored, 0, len(m)-1)
	for other := range m {
		if other == target {
			continue
		}
		scores = append(scores, Scored{Score: sim(m, target, other), ID: other})
	}

	sortScored(scores)
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}
