// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package events carries rebuild progress from the recommendation engine to
// its observers over an in-process Watermill pub/sub.
//
// The engine publishes through Bus, which implements
// recommend.EventPublisher. A Forwarder subscribes to the rebuild topic and
// hands each payload to a Sink, normally the WebSocket hub:
//
//	bus := events.NewBus(events.DefaultConfig(), logger)
//	engine, _ := recommend.NewEngine(cfg, logger, recommend.WithEventPublisher(bus))
//	forwarder := events.NewForwarder(bus, hub, logger)
//	go forwarder.Serve(ctx)
//
// With BlockUntilAck, live subscribers see messages in publish order and a
// subscriber that stops reading stalls publishers until its context is
// done. A topic with no subscribers drops its messages unless the bus is
// Persistent.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/metrics"
	"github.com/tomtom215/critics/internal/recommend"
)

// TopicRebuild carries recommend.RebuildEvent payloads.
const TopicRebuild = "recommend.rebuild"

// ErrBusClosed is returned when publishing or subscribing after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Config holds event bus settings.
type Config struct {
	// OutputChannelBuffer is the per-subscriber channel buffer.
	// Default: 256
	OutputChannelBuffer int64

	// BlockUntilAck makes Publish wait until every subscriber has acked,
	// which keeps delivery in publish order.
	// Default: true
	BlockUntilAck bool

	// Persistent keeps every message and replays it to late subscribers.
	// Memory grows without bound, so it is meant for tests and one-shot
	// CLI runs.
	// Default: false
	Persistent bool
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		OutputChannelBuffer: 256,
		BlockUntilAck:       true,
	}
}

// Bus is an in-process publisher and subscriber for engine events.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
	closed atomic.Bool
}

// NewBus creates a Bus backed by a Watermill Go channel pub/sub.
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	logger = logger.With().Str("component", "event-bus").Logger()
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.OutputChannelBuffer,
		BlockPublishUntilSubscriberAck: cfg.BlockUntilAck,
		Persistent:                     cfg.Persistent,
	}, logging.NewWatermillLogger(logger))

	return &Bus{
		pubsub: pubsub,
		logger: logger,
	}
}

// Publish sends raw messages to topic.
func (b *Bus) Publish(topic string, msgs ...*message.Message) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	err := b.pubsub.Publish(topic, msgs...)
	metrics.RecordEventPublish(topic, err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// PublishRebuildEvent serializes event and publishes it on TopicRebuild.
func (b *Bus) PublishRebuildEvent(ctx context.Context, event recommend.RebuildEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize rebuild event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("phase", string(event.Phase))
	if event.Fingerprint != "" {
		msg.Metadata.Set("fingerprint", event.Fingerprint)
	}
	msg.SetContext(ctx)

	return b.Publish(TopicRebuild, msg)
}

// Subscribe returns the raw message stream for topic. Every message must
// be acked or nacked. The channel closes when ctx is done or the bus is
// closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	msgs, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return msgs, nil
}

// SubscribeRebuildEvents returns decoded rebuild events. Messages that fail
// to decode are logged and skipped.
func (b *Bus) SubscribeRebuildEvents(ctx context.Context) (<-chan recommend.RebuildEvent, error) {
	msgs, err := b.Subscribe(ctx, TopicRebuild)
	if err != nil {
		return nil, err
	}

	out := make(chan recommend.RebuildEvent)
	go func() {
		defer close(out)
		for msg := range msgs {
			var event recommend.RebuildEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable rebuild event")
				msg.Ack()
				continue
			}
			select {
			case out <- event:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

// Close shuts down the bus and closes every subscription. It is safe to
// call more than once.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.pubsub.Close()
}
