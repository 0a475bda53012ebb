// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package store persists item similarity tables in BadgerDB so a restart
// with unchanged ratings skips the precompute.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/critics/internal/recommend"
)

const tableKeyPrefix = "table:"

// DefaultMaxTables is the number of tables kept when Options.MaxTables is unset.
const DefaultMaxTables = 3

// Options configures a BadgerStore.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory. Nothing survives Close.
	InMemory bool

	// MaxTables bounds how many tables are kept; older ones are pruned
	// after each put.
	MaxTables int
}

// snapshot is the stored value for one table.
type snapshot struct {
	CreatedAt time.Time                     `json:"created_at"`
	Table     recommend.ItemSimilarityTable `json:"table"`
}

// BadgerStore implements recommend.TableStore on BadgerDB.
type BadgerStore struct {
	db        *badger.DB
	maxTables int
	logger    zerolog.Logger
}

var _ recommend.TableStore = (*BadgerStore)(nil)

// Open opens (or creates) a table store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*BadgerStore, error) {
	logger = logger.With().Str("component", "store").Logger()

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("store path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(newBadgerLogger(logger))

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	maxTables := opts.MaxTables
	if maxTables <= 0 {
		maxTables = DefaultMaxTables
	}

	logger.Info().Str("path", opts.Path).Bool("in_memory", opts.InMemory).Msg("table store opened")
	return &BadgerStore{db: db, maxTables: maxTables, logger: logger}, nil
}

// GetTable returns the table stored under key. The bool is false when no
// table is stored.
func (s *BadgerStore) GetTable(ctx context.Context, key string) (recommend.ItemSimilarityTable, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var snap snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tableKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get table: %w", err)
	}
	if snap.Table == nil {
		snap.Table = recommend.ItemSimilarityTable{}
	}
	return snap.Table, true, nil
}

// PutTable stores table under key and prunes the oldest tables beyond
// the configured limit.
func (s *BadgerStore) PutTable(ctx context.Context, key string, table recommend.ItemSimilarityTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snapshot{CreatedAt: time.Now().UTC(), Table: table})
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(tableKeyPrefix+key), data)
	}); err != nil {
		return fmt.Errorf("put table: %w", err)
	}

	pruned, err := s.prune()
	if err != nil {
		return fmt.Errorf("prune tables: %w", err)
	}

	s.logger.Debug().
		Str("key", key).
		Int("items", len(table)).
		Int("bytes", len(data)).
		Int("pruned", pruned).
		Msg("table stored")
	return nil
}

// Keys returns the stored table keys, newest first.
func (s *BadgerStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type entry struct {
	key     string
	version uint64
}

// entries lists stored tables, newest commit first.
func (s *BadgerStore) entries() ([]entry, error) {
	var out []entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(tableKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			out = append(out, entry{
				key:     string(item.Key()[len(prefix):]),
				version: item.Version(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	slices.SortFunc(out, func(a, b entry) int {
		if c := cmp.Compare(b.version, a.version); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return out, nil
}

func (s *BadgerStore) prune() (int, error) {
	entries, err := s.entries()
	if err != nil {
		return 0, err
	}
	if len(entries) <= s.maxTables {
		return 0, nil
	}

	stale := entries[s.maxTables:]
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, e := range stale {
			if err := txn.Delete([]byte(tableKeyPrefix + e.key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}
