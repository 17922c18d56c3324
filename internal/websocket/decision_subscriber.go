// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package websocket

import (
	"context"

	"github.com/northlane-labs/notifyguard/internal/events"
	"github.com/northlane-labs/notifyguard/internal/logging"
)

// DecisionSubscriber forwards every Decision published on the event bus to
// the Hub's connected WebSocket clients. It replaces the media pipeline's
// NATS-backed subscriber: there is no external broker here, only the
// in-process bus in internal/events.
type DecisionSubscriber struct {
	hub *Hub
}

// NewDecisionSubscriber builds a subscriber that broadcasts through hub.
func NewDecisionSubscriber(hub *Hub) *DecisionSubscriber {
	return &DecisionSubscriber{hub: hub}
}

// Run subscribes to the decision-recorded topic and broadcasts each message
// until ctx is canceled or the bus closes its channel.
func (s *DecisionSubscriber) Run(ctx context.Context, bus *events.Bus) error {
	messages, err := bus.Subscribe(events.TopicDecisionRecorded)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			decision, err := events.UnmarshalDecision(msg)
			if err != nil {
				msg.Ack()
				logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("failed to unmarshal decision for websocket broadcast")
				continue
			}
			s.hub.BroadcastDecision(decision)
			msg.Ack()
		}
	}
}
