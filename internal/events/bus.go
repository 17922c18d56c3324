// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package events provides an in-process decision event bus. Unlike the
// NATS-backed eventprocessor this package replaces, no external broker is
// required: Watermill's gochannel.GoChannel keeps DecisionRecorded delivery
// entirely in memory, which is all a single-process websocket hub and an
// optional DuckDB flush subscriber need.
package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/northlane-labs/notifyguard/internal/logging"
	"github.com/northlane-labs/notifyguard/internal/models"
)

// TopicDecisionRecorded is the single topic the bus carries: one message
// per recorded Decision.
const TopicDecisionRecorded = "decision.recorded"

// Bus wraps a Watermill gochannel pub/sub pair. Publish and Subscribe are
// safe for concurrent use.
type Bus struct {
	pubSub   *gochannel.GoChannel
	logger   watermill.LoggerAdapter
	eventLog *logging.EventLogger
}

// New constructs a Bus. verbose enables Watermill's own debug/trace logging.
func New(verbose bool) *Bus {
	logger := watermill.NewStdLogger(verbose, verbose)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            256,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)
	return &Bus{pubSub: pubSub, logger: logger, eventLog: logging.NewEventLogger()}
}

// PublishDecision marshals decision and publishes it to TopicDecisionRecorded.
func (b *Bus) PublishDecision(decision *models.Decision) error {
	ctx := context.Background()
	payload, err := marshalDecision(decision)
	if err != nil {
		b.eventLog.LogPublishFailed(ctx, decision.EventID, err)
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("user_id", decision.UserID)
	msg.Metadata.Set("action", string(decision.Action))
	if err := b.pubSub.Publish(TopicDecisionRecorded, msg); err != nil {
		b.eventLog.LogPublishFailed(ctx, decision.EventID, err)
		return err
	}
	b.eventLog.LogDecisionPublished(ctx, decision.EventID, decision.UserID, string(decision.Action))
	return nil
}

// Subscribe returns a channel of raw messages on TopicDecisionRecorded.
// Callers should Ack or Nack each message; unmarshalDecision recovers the
// Decision from its payload.
func (b *Bus) Subscribe(topic string) (<-chan *message.Message, error) {
	ch, err := b.pubSub.Subscribe(context.Background(), topic)
	if err != nil {
		return nil, err
	}
	b.eventLog.LogSubscriptionStarted(topic)
	return ch, nil
}

// Close shuts down the underlying pub/sub, unblocking any Subscribe channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
