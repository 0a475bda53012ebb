// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

// TransformPrefs transposes m: every (person, item, rating) becomes
// (item, person, rating). The input is not modified.
func TransformPrefs(m RatingMatrix) RatingMatrix {
	out := make(RatingMatrix)
	for person, profile := range m {
		for item, rating := range profile {
			p, ok := out[item]
			if !ok {
				p = make(RatingProfile)
				out[item] = p
			}
			p[person] = rating
		}
	}
	return out
}
