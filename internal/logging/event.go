// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides specialized logging for the decision event bus:
// publishing a recorded Decision, the websocket hub and DuckDB flush
// subscriber consuming it, and the failure paths particular to each.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a logger configured for the event bus.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logger: With().Str("component", "events").Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value (copy-on-write semantics)
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{logger: logger.With().Str("component", "events").Logger()}
}

// WithFields returns a new EventLogger with additional default fields.
func (e *EventLogger) WithFields(fields map[string]interface{}) *EventLogger {
	ctx := e.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &EventLogger{logger: ctx.Logger()}
}

// Debug logs a debug message.
func (e *EventLogger) Debug(msg string, fields ...interface{}) {
	event := e.logger.Debug()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// Info logs an info message.
func (e *EventLogger) Info(msg string, fields ...interface{}) {
	event := e.logger.Info()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// Warn logs a warning message.
func (e *EventLogger) Warn(msg string, fields ...interface{}) {
	event := e.logger.Warn()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// Error logs an error message.
func (e *EventLogger) Error(msg string, fields ...interface{}) {
	event := e.logger.Error()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// DebugContext logs a debug message with context (for correlation ID).
func (e *EventLogger) DebugContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Debug()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// InfoContext logs an info message with context.
func (e *EventLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Info()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// WarnContext logs a warning message with context.
func (e *EventLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Warn()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// ErrorContext logs an error message with context.
func (e *EventLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Error()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// loggerWithContext returns a logger with context fields added.
func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()

	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	return logCtx.Logger()
}

// ============================================================
// Domain-Specific Event Bus Logging Methods
// ============================================================

// LogDecisionPublished logs that a Decision was published to the bus.
func (e *EventLogger) LogDecisionPublished(ctx context.Context, eventID, userID, action string) {
	e.DebugContext(ctx, "decision published",
		"event_id", eventID,
		"user_id", userID,
		"action", action,
	)
}

// LogPublishFailed logs that publishing a Decision to the bus failed.
func (e *EventLogger) LogPublishFailed(ctx context.Context, eventID string, err error) {
	logger := e.loggerWithContext(ctx)
	logger.Error().
		Str("event_id", eventID).
		Err(err).
		Msg("failed to publish decision")
}

// LogSubscriptionStarted logs when a subscriber attaches to a bus topic.
func (e *EventLogger) LogSubscriptionStarted(topic string) {
	e.Info("subscription started", "topic", topic)
}

// LogSubscriptionStopped logs when a subscriber detaches from a bus topic.
func (e *EventLogger) LogSubscriptionStopped(topic, reason string) {
	e.Info("subscription stopped", "topic", topic, "reason", reason)
}

// LogUnmarshalFailed logs that a bus message could not be decoded back
// into a Decision.
func (e *EventLogger) LogUnmarshalFailed(ctx context.Context, messageUUID string, err error) {
	logger := e.loggerWithContext(ctx)
	logger.Error().
		Str("message_uuid", messageUUID).
		Err(err).
		Msg("failed to unmarshal decision from bus message")
}

// LogDecisionFlushed logs that a Decision consumed from the bus was
// durably persisted by a flush subscriber.
func (e *EventLogger) LogDecisionFlushed(ctx context.Context, eventID string) {
	e.DebugContext(ctx, "decision flushed", "event_id", eventID)
}

// LogFlushFailed logs that a flush subscriber failed to persist a
// Decision consumed from the bus. The message is still acked: the
// synchronous audit write the Prioritizer already performed remains the
// authoritative record.
func (e *EventLogger) LogFlushFailed(ctx context.Context, eventID string, err error) {
	logger := e.loggerWithContext(ctx)
	logger.Warn().
		Str("event_id", eventID).
		Err(err).
		Msg("failed to flush decision")
}
