// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package movielens

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const sampleRatings = "196\t242\t3\t881250949\n" +
	"186\t302\t3\t891717742\n" +
	"\n" +
	"196\t302\t4.5\t881251000\n" +
	"196\t242\t5\t881260000\n"

// Titles in u.item are ISO-8859-1; 0xe9 is "é".
const sampleTitles = "242|Kolya (1996)|24-Jan-1997||http://us.imdb.com/M/title-exact?Kolya%20(1996)|0|0\n" +
	"302|L.A. Confidential (1997)|01-Jan-1997||url|0|0\n" +
	"1300|Caf\xe9 au lait (1993)|01-Jan-1993||url|0|0\n"

func TestReadRatings(t *testing.T) {
	m, err := ReadRatings(strings.NewReader(sampleRatings))
	if err != nil {
		t.Fatalf("ReadRatings() error = %v", err)
	}

	if len(m) != 2 {
		t.Fatalf("people = %d, want 2", len(m))
	}
	if got := m["196"]["242"]; got != 5 {
		t.Errorf("196/242 = %v, want 5 (later rating wins)", got)
	}
	if got := m["196"]["302"]; got != 4.5 {
		t.Errorf("196/302 = %v, want 4.5", got)
	}
	if got := m["186"]["302"]; got != 3 {
		t.Errorf("186/302 = %v, want 3", got)
	}
	if m.Ratings() != 3 {
		t.Errorf("Ratings() = %d, want 3", m.Ratings())
	}
}

func TestReadRatings_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine string
	}{
		{"too few fields", "1\t2\t3\t4\n1\t2\n", "line 2"},
		{"bad rating", "1\t2\tfive\t4\n", "line 1"},
		{"nan rating", "1\t2\t3\t4\n\n1\t3\tNaN\t4\n", "line 3"},
		{"empty id", "\t2\t3\t4\n", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRatings(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("ReadRatings() error = %v, want ErrMalformed", err)
			}
			if !strings.Contains(err.Error(), tt.wantLine) {
				t.Errorf("error %q does not name %s", err, tt.wantLine)
			}
		})
	}
}

func TestReadTitles(t *testing.T) {
	titles, err := ReadTitles(strings.NewReader(sampleTitles))
	if err != nil {
		t.Fatalf("ReadTitles() error = %v", err)
	}

	want := map[string]string{
		"242":  "Kolya (1996)",
		"302":  "L.A. Confidential (1997)",
		"1300": "Café au lait (1993)",
	}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for id, title := range want {
		if titles[id] != title {
			t.Errorf("titles[%s] = %q, want %q", id, titles[id], title)
		}
	}
}

func TestReadTitles_Malformed(t *testing.T) {
	_, err := ReadTitles(strings.NewReader("1|Toy Story (1995)\nnot-a-record\n"))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("ReadTitles() error = %v, want ErrMalformed", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name line 2", err)
	}
}

func writeDataset(t *testing.T, withTitles bool) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RatingsFile), []byte(sampleRatings), 0o600); err != nil {
		t.Fatal(err)
	}
	if withTitles {
		if err := os.WriteFile(filepath.Join(dir, TitlesFile), []byte(sampleTitles), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("ratings and titles", func(t *testing.T) {
		ds, err := Load(writeDataset(t, true))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(ds.Ratings) != 2 || len(ds.Titles) != 3 {
			t.Errorf("Load() = %d people, %d titles, want 2 and 3", len(ds.Ratings), len(ds.Titles))
		}
	})

	t.Run("titles optional", func(t *testing.T) {
		ds, err := Load(writeDataset(t, false))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if ds.Titles == nil || len(ds.Titles) != 0 {
			t.Errorf("Titles = %v, want empty map", ds.Titles)
		}
	})

	t.Run("missing ratings", func(t *testing.T) {
		if _, err := Load(t.TempDir()); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("malformed titles", func(t *testing.T) {
		dir := writeDataset(t, false)
		if err := os.WriteFile(filepath.Join(dir, TitlesFile), []byte("broken\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir); !errors.Is(err, ErrMalformed) {
			t.Errorf("Load() error = %v, want ErrMalformed", err)
		}
	})
}

func TestSource(t *testing.T) {
	src := NewSource(writeDataset(t, true), zerolog.Nop())

	ds, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Source.Load() error = %v", err)
	}
	if ds.Titles["1300"] != "Café au lait (1993)" {
		t.Errorf("title 1300 = %q", ds.Titles["1300"])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Source.Load(cancelled) error = %v, want context.Canceled", err)
	}
}
