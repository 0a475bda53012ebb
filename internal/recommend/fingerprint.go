// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"slices"
	"strconv"
)

// Fingerprint returns a hex SHA-256 digest over every (entity, item, rating)
// triple of m in sorted order. Two matrices with equal contents always have
// the same fingerprint, so it identifies which ratings a table was built from.
func Fingerprint(m RatingMatrix) string {
	h := sha256.New()
	buf := make([]byte, 0, 64)

	for _, entity := range m.Entities() {
		profile := m[entity]
		items := make([]string, 0, len(profile))
		for item := range profile {
			items = append(items, item)
		}
		slices.Sort(items)

		for _, item := range items {
			buf = buf[:0]
			buf = strconv.AppendQuote(buf, entity)
			buf = append(buf, '\t')
			buf = strconv.AppendQuote(buf, item)
			buf = append(buf, '\t')
			buf = strconv.AppendFloat(buf, profile[item], 'g', -1, 64)
			buf = append(buf, '\n')
			write(h, buf)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

func write(h hash.Hash, b []byte) {
	_, _ = h.Write(b) // hash.Hash.Write never returns an error
}
