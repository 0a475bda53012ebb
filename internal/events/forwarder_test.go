// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/critics/internal/recommend"
)

// recordingSink collects forwarded payloads.
type recordingSink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *recordingSink) BroadcastRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, append([]byte(nil), data...))
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func (s *recordingSink) events(t *testing.T) []recommend.RebuildEvent {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recommend.RebuildEvent, 0, len(s.payloads))
	for _, p := range s.payloads {
		var event recommend.RebuildEvent
		if err := json.Unmarshal(p, &event); err != nil {
			t.Fatalf("unmarshal forwarded payload: %v", err)
		}
		out = append(out, event)
	}
	return out
}

func waitForCount(t *testing.T, sink *recordingSink, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sink.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("sink received %d payloads, want %d", sink.count(), want)
}

func persistentConfig() Config {
	cfg := DefaultConfig()
	cfg.Persistent = true
	return cfg
}

func TestForwarder_Serve(t *testing.T) {
	bus := newTestBus(t, persistentConfig())
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	phases := []recommend.RebuildPhase{recommend.PhaseStarted, recommend.PhaseProgress, recommend.PhaseCompleted}
	for _, phase := range phases {
		if err := bus.PublishRebuildEvent(ctx, recommend.RebuildEvent{Phase: phase}); err != nil {
			t.Fatalf("PublishRebuildEvent(%s) error = %v", phase, err)
		}
	}

	forwarder := NewForwarder(bus, sink, zerolog.Nop())
	done := make(chan error, 1)
	go func() { done <- forwarder.Serve(ctx) }()

	waitForCount(t, sink, len(phases))

	// Replayed messages carry no ordering guarantee.
	seen := make(map[recommend.RebuildPhase]int)
	for _, event := range sink.events(t) {
		seen[event.Phase]++
	}
	for _, phase := range phases {
		if seen[phase] != 1 {
			t.Errorf("phase %q forwarded %d times, want 1", phase, seen[phase])
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestForwarder_BusClosed(t *testing.T) {
	t.Run("before serve", func(t *testing.T) {
		bus := NewBus(DefaultConfig(), zerolog.Nop())
		_ = bus.Close()

		err := NewForwarder(bus, &recordingSink{}, zerolog.Nop()).Serve(context.Background())
		if !errors.Is(err, ErrBusClosed) {
			t.Errorf("Serve() = %v, want ErrBusClosed", err)
		}
	})

	t.Run("while serving", func(t *testing.T) {
		bus := NewBus(persistentConfig(), zerolog.Nop())
		sink := &recordingSink{}
		if err := bus.PublishRebuildEvent(context.Background(), recommend.RebuildEvent{Phase: recommend.PhaseStarted}); err != nil {
			t.Fatalf("PublishRebuildEvent() error = %v", err)
		}

		done := make(chan error, 1)
		go func() { done <- NewForwarder(bus, sink, zerolog.Nop()).Serve(context.Background()) }()
		waitForCount(t, sink, 1)

		_ = bus.Close()
		select {
		case err := <-done:
			if !errors.Is(err, ErrSubscriptionClosed) {
				t.Errorf("Serve() = %v, want ErrSubscriptionClosed", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after bus close")
		}
	})
}

func TestForwarder_String(t *testing.T) {
	f := NewForwarder(nil, nil, zerolog.Nop())
	if f.String() != "event-forwarder" {
		t.Errorf("String() = %q", f.String())
	}
}
