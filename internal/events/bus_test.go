// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package events

import (
	"testing"
	"time"

	"github.com/northlane-labs/notifyguard/internal/models"
)

func TestPublishAndSubscribeDecision(t *testing.T) {
	bus := New(false)
	defer bus.Close()

	messages, err := bus.Subscribe(TopicDecisionRecorded)
	if err != nil {
		t.Fatalf("unexpected error subscribing: %v", err)
	}

	decision := &models.Decision{
		EventID: "evt-1",
		UserID:  "user-1",
		Action:  models.ActionNow,
		Score:   0.9,
		Reason:  "test",
	}

	if err := bus.PublishDecision(decision); err != nil {
		t.Fatalf("unexpected error publishing: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		got, err := UnmarshalDecision(msg)
		if err != nil {
			t.Fatalf("unexpected error unmarshaling: %v", err)
		}
		if got.EventID != decision.EventID {
			t.Errorf("expected event id %s, got %s", decision.EventID, got.EventID)
		}
		if got.Action != decision.Action {
			t.Errorf("expected action %s, got %s", decision.Action, got.Action)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published decision")
	}
}

func TestSubscribeBeforePublishDeliversEveryMessage(t *testing.T) {
	bus := New(false)
	defer bus.Close()

	messages, err := bus.Subscribe(TopicDecisionRecorded)
	if err != nil {
		t.Fatalf("unexpected error subscribing: %v", err)
	}

	for i := 0; i < 3; i++ {
		decision := &models.Decision{EventID: "evt", UserID: "user", Action: models.ActionLater}
		if err := bus.PublishDecision(decision); err != nil {
			t.Fatalf("unexpected error publishing message %d: %v", i, err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case msg := <-messages:
			msg.Ack()
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestBusCloseUnblocksSubscribers(t *testing.T) {
	bus := New(false)

	messages, err := bus.Subscribe(TopicDecisionRecorded)
	if err != nil {
		t.Fatalf("unexpected error subscribing: %v", err)
	}

	if err := bus.Close(); err != nil {
		t.Fatalf("unexpected error closing bus: %v", err)
	}

	select {
	case _, ok := <-messages:
		if ok {
			t.Error("expected channel to be closed after bus Close")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscriber channel to close")
	}
}
