// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package main is the entry point for the critics command.
//
// critics recommends items from explicit ratings using collaborative
// filtering over a MovieLens-format dataset (u.data and u.item).
//
// # Commands
//
//	critics serve                         run the supervised HTTP service
//	critics recommend -user U [-mode user|item] [-k N] [-similarity S]
//	critics similar -item I [-k N]
//	critics matches -user U [-k N] [-similarity S]
//
// Every command accepts -config (YAML file) and -data (dataset directory).
// The query commands load the dataset, build the item similarity table and
// print tab-separated results to stdout. Logs go to stderr.
//
// # Configuration
//
// Settings are layered with koanf: defaults, then an optional config.yaml
// (or CONFIG_PATH), then environment variables. See package config.
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM: the HTTP server drains
// in-flight requests, WebSocket clients receive a close frame and the event
// bus is closed. The query commands abort a running rebuild on the same
// signals.
//
// # Example Usage
//
//	export DATA_DIR=./ml-100k
//	critics recommend -user 87 -mode item -k 5
//	critics similar -item 50
//	critics serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usageText = `usage: critics <command> [flags]

commands:
  serve       run the HTTP service
  recommend   print recommendations for a user
  similar     print items similar to an item
  matches     print users similar to a user

run "critics <command> -h" for command flags
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "critics: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run dispatches to a subcommand.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return errors.New("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "serve":
		return runServe(ctx, rest, stderr)
	case "recommend":
		return runRecommend(ctx, rest, stdout, stderr)
	case "similar":
		return runSimilar(ctx, rest, stdout, stderr)
	case "matches":
		return runMatches(ctx, rest, stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usageText)
		return nil
	default:
		fmt.Fprint(stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
