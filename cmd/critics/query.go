// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/critics/internal/recommend"
)

// loadEngine builds an engine and runs one rebuild so queries can be served.
func loadEngine(ctx context.Context, g *globalFlags, stderr io.Writer) (*recommend.Engine, func(), error) {
	cfg, logger, err := setup(g, stderr)
	if err != nil {
		return nil, func() {}, err
	}

	engine, closer, err := newEngine(cfg, logger)
	if err != nil {
		return nil, closer, err
	}
	if err := engine.Rebuild(ctx); err != nil {
		closer()
		return nil, func() {}, fmt.Errorf("load dataset: %w", err)
	}
	return engine, closer, nil
}

func runRecommend(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, g := newFlagSet("recommend", stderr)
	user := fs.String("user", "", "user to recommend for (required)")
	mode := fs.String("mode", "user", "scoring mode: user or item")
	k := fs.Int("k", 0, "number of results (0 = configured default)")
	similarity := fs.String("similarity", "", "user similarity: pearson or distance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("recommend: -user is required")
	}
	m, err := recommend.ParseMode(*mode)
	if err != nil {
		return err
	}

	engine, closer, err := loadEngine(ctx, g, stderr)
	if err != nil {
		return err
	}
	defer closer()

	resp, err := engine.RecommendForUser(ctx, recommend.Request{
		User:       *user,
		Mode:       m,
		K:          *k,
		Similarity: *similarity,
	})
	if err != nil {
		return err
	}
	printRecommendations(stdout, resp.Items)
	return nil
}

func runSimilar(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, g := newFlagSet("similar", stderr)
	item := fs.String("item", "", "item to find neighbors for (required)")
	k := fs.Int("k", 0, "number of results (0 = configured default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *item == "" {
		return errors.New("similar: -item is required")
	}

	engine, closer, err := loadEngine(ctx, g, stderr)
	if err != nil {
		return err
	}
	defer closer()

	items, err := engine.SimilarItems(ctx, *item, *k)
	if err != nil {
		return err
	}
	printRecommendations(stdout, items)
	return nil
}

func runMatches(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, g := newFlagSet("matches", stderr)
	user := fs.String("user", "", "user to match (required)")
	k := fs.Int("k", 0, "number of results (0 = configured default)")
	similarity := fs.String("similarity", "", "user similarity: pearson or distance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("matches: -user is required")
	}

	engine, closer, err := loadEngine(ctx, g, stderr)
	if err != nil {
		return err
	}
	defer closer()

	users, err := engine.SimilarUsers(ctx, *user, *k, *similarity)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(stdout, "%.4f\t%s\n", u.Score, u.ID)
	}
	return nil
}

// printRecommendations writes score, id and title, one per line.
func printRecommendations(w io.Writer, recs []recommend.Recommendation) {
	for _, r := range recs {
		fmt.Fprintf(w, "%.4f\t%s\t%s\n", r.Score, r.ID, r.Title)
	}
}
