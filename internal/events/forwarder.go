// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrSubscriptionClosed is returned by Serve when the bus closes the
// subscription before ctx is done.
var ErrSubscriptionClosed = errors.New("rebuild event subscription closed")

// Sink receives serialized rebuild events.
type Sink interface {
	BroadcastRaw(data []byte)
}

// Forwarder copies rebuild events from the bus to a Sink. It implements
// suture.Service.
type Forwarder struct {
	bus    *Bus
	sink   Sink
	logger zerolog.Logger
}

// NewForwarder creates a forwarder from bus to sink.
func NewForwarder(bus *Bus, sink Sink, logger zerolog.Logger) *Forwarder {
	return &Forwarder{
		bus:    bus,
		sink:   sink,
		logger: logger.With().Str("component", "event-forwarder").Logger(),
	}
}

// Serve forwards messages until ctx is done.
func (f *Forwarder) Serve(ctx context.Context) error {
	msgs, err := f.bus.Subscribe(ctx, TopicRebuild)
	if err != nil {
		return err
	}

	f.logger.Debug().Str("topic", TopicRebuild).Msg("event forwarder started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			f.sink.BroadcastRaw(msg.Payload)
			msg.Ack()
		}
	}
}

// String returns the service name for supervisor logging.
func (f *Forwarder) String() string {
	return "event-forwarder"
}
