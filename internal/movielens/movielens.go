// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package movielens reads the MovieLens 100k files into a recommend.Dataset.
//
// Two files are used from the dataset directory:
//
//	u.data  tab-separated "user item rating timestamp", one rating per line
//	u.item  pipe-separated "id|title|release date|...", ISO-8859-1 encoded
//
// People and items keep their numeric IDs as strings. Titles are carried
// separately so distinct films that share a title stay distinct.
package movielens

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/critics/internal/recommend"
)

// File names inside a MovieLens 100k directory.
const (
	RatingsFile = "u.data"
	TitlesFile  = "u.item"
)

// ErrMalformed is returned for lines that cannot be parsed.
var ErrMalformed = errors.New("malformed line")

// ReadRatings parses u.data. A later rating of the same item by the same
// person replaces the earlier one. Blank lines are skipped.
func ReadRatings(r io.Reader) (recommend.RatingMatrix, error) {
	reader := newReader(r, '\t')
	m := make(recommend.RatingMatrix)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return m, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", RatingsFile, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) < 3 {
			return nil, malformed(RatingsFile, line, "want at least 3 fields, got %d", len(record))
		}

		person := strings.TrimSpace(record[0])
		item := strings.TrimSpace(record[1])
		if person == "" || item == "" {
			return nil, malformed(RatingsFile, line, "empty user or item id")
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, malformed(RatingsFile, line, "invalid rating %q", record[2])
		}

		profile, ok := m[person]
		if !ok {
			profile = make(recommend.RatingProfile)
			m[person] = profile
		}
		profile[item] = score
	}
}

// ReadTitles parses u.item, decoding ISO-8859-1 to UTF-8.
func ReadTitles(r io.Reader) (map[string]string, error) {
	reader := newReader(charmap.ISO8859_1.NewDecoder().Reader(r), '|')
	titles := make(map[string]string)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return titles, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TitlesFile, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, malformed(TitlesFile, line, "want at least 2 fields, got %d", len(record))
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			return nil, malformed(TitlesFile, line, "empty item id")
		}
		titles[id] = record[1]
	}
}

// Load reads a dataset from dir. The titles file is optional; without it
// recommendations carry IDs only.
func Load(dir string) (*recommend.Dataset, error) {
	ratings, err := readFile(filepath.Join(dir, RatingsFile), ReadRatings)
	if err != nil {
		return nil, err
	}

	titles, err := readFile(filepath.Join(dir, TitlesFile), ReadTitles)
	if errors.Is(err, fs.ErrNotExist) {
		titles = map[string]string{}
	} else if err != nil {
		return nil, err
	}

	return &recommend.Dataset{Ratings: ratings, Titles: titles}, nil
}

// Source implements recommend.DataSource for a MovieLens directory.
type Source struct {
	dir    string
	logger zerolog.Logger
}

// NewSource creates a Source reading from dir.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSource(dir string, logger zerolog.Logger) *Source {
	return &Source{
		dir:    dir,
		logger: logger.With().Str("component", "movielens").Str("dir", dir).Logger(),
	}
}

// Load reads the dataset from disk.
func (s *Source) Load(ctx context.Context) (*recommend.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := Load(s.dir)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("people", len(ds.Ratings)).
		Int("ratings", ds.Ratings.Ratings()).
		Int("titles", len(ds.Titles)).
		Msg("dataset loaded")
	return ds, nil
}

func newReader(r io.Reader, sep rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	return v, nil
}

func malformed(file string, line int, format string, args ...any) error {
	return fmt.Errorf("%s line %d: %s: %w", file, line, fmt.Sprintf(format, args...), ErrMalformed)
}
