// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build duckdb

package events

import (
	"context"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/northlane-labs/notifyguard/internal/audit"
	"github.com/northlane-labs/notifyguard/internal/logging"
)

// DuckDBFlushSubscriber drains TopicDecisionRecorded and writes each
// Decision to a DuckDB-backed audit.Store, independent of the synchronous
// write the Prioritizer already performed against its own audit.Store.
// This lets a deployment keep a fast in-memory store on the hot path while
// still getting a durable DuckDB copy on a best-effort basis.
type DuckDBFlushSubscriber struct {
	store     *audit.DuckDBStore
	eventLog  *logging.EventLogger
	processed int64
	errors    int64
}

// NewDuckDBFlushSubscriber wraps an already-initialized DuckDB store.
func NewDuckDBFlushSubscriber(store *audit.DuckDBStore) *DuckDBFlushSubscriber {
	return &DuckDBFlushSubscriber{store: store, eventLog: logging.NewEventLogger()}
}

// Run consumes bus's decision topic until the channel closes or ctx is
// canceled. Every message is acked regardless of the DuckDB write outcome:
// a flush failure is logged, not retried, since the in-memory audit log the
// Prioritizer wrote to synchronously already holds the authoritative record.
func (s *DuckDBFlushSubscriber) Run(ctx context.Context, bus *Bus) error {
	messages, err := bus.Subscribe(TopicDecisionRecorded)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.eventLog.LogSubscriptionStopped(TopicDecisionRecorded, "context canceled")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				s.eventLog.LogSubscriptionStopped(TopicDecisionRecorded, "channel closed")
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *DuckDBFlushSubscriber) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	decision, err := UnmarshalDecision(msg)
	if err != nil {
		atomic.AddInt64(&s.errors, 1)
		s.eventLog.LogUnmarshalFailed(ctx, msg.UUID, err)
		return
	}

	if err := s.store.Record(ctx, decision); err != nil {
		atomic.AddInt64(&s.errors, 1)
		s.eventLog.LogFlushFailed(ctx, decision.EventID, err)
		return
	}
	atomic.AddInt64(&s.processed, 1)
	s.eventLog.LogDecisionFlushed(ctx, decision.EventID)
}

// Processed returns the number of messages successfully flushed.
func (s *DuckDBFlushSubscriber) Processed() int64 {
	return atomic.LoadInt64(&s.processed)
}

// Errors returns the number of flush failures encountered.
func (s *DuckDBFlushSubscriber) Errors() int64 {
	return atomic.LoadInt64(&s.errors)
}
