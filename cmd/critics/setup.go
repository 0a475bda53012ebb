// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/critics/internal/config"
	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/movielens"
	"github.com/tomtom215/critics/internal/recommend"
	"github.com/tomtom215/critics/internal/store"
)

// globalFlags are accepted by every command.
type globalFlags struct {
	configPath string
	dataDir    string
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	g := &globalFlags{}
	fs.StringVar(&g.configPath, "config", "", "YAML config file (default: CONFIG_PATH or ./config.yaml)")
	fs.StringVar(&g.dataDir, "data", "", "MovieLens directory (overrides DATA_DIR)")
	return fs, g
}

// setup loads configuration and initializes the global logger on stderr.
func setup(g *globalFlags, stderr io.Writer) (*config.Config, zerolog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadWithKoanf()
	}
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if g.dataDir != "" {
		cfg.Data.Dir = g.dataDir
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = stderr
	logging.Init(logCfg)

	return cfg, logging.Logger(), nil
}

// newEngine wires the MovieLens source and, when enabled, the BadgerDB
// table store into an engine. The returned closer releases the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newEngine(cfg *config.Config, logger zerolog.Logger, opts ...recommend.Option) (*recommend.Engine, func(), error) {
	closer := func() {}
	opts = append(opts, recommend.WithDataSource(movielens.NewSource(cfg.Data.Dir, logger)))

	if cfg.Store.Enabled {
		st, err := store.Open(store.Options{
			Path:     cfg.Store.Path,
			InMemory: cfg.Store.InMemory,
		}, logger)
		if err != nil {
			return nil, closer, fmt.Errorf("open table store: %w", err)
		}
		closer = func() {
			if err := st.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing table store")
			}
		}
		opts = append(opts, recommend.WithTableStore(st))
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger, opts...)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	return engine, closer, nil
}
