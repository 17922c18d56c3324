// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package audit

import (
	"context"

	"github.com/northlane-labs/notifyguard/internal/logging"
	"github.com/northlane-labs/notifyguard/internal/models"
)

// Logger wraps a Store with structured logging. Unlike the teacher's
// buffered security-event logger, decision recording is synchronous: the
// prioritizer's safety-net invariants and the get_user_history read path
// both depend on a decision being durable (and ordered) the instant
// Record returns.
type Logger struct {
	store       Store
	logToStdout bool
}

// NewLogger wraps store. When logToStdout is true, every recorded
// decision is also emitted as a structured log line.
func NewLogger(store Store, logToStdout bool) *Logger {
	return &Logger{store: store, logToStdout: logToStdout}
}

// Record appends decision to the underlying store and optionally logs it.
func (l *Logger) Record(ctx context.Context, decision *models.Decision) error {
	if err := l.store.Record(ctx, decision); err != nil {
		return err
	}
	if l.logToStdout {
		logging.Info().
			Str("event_id", decision.EventID).
			Str("user_id", decision.UserID).
			Str("action", string(decision.Action)).
			Float64("score", decision.Score).
			Str("reason", decision.Reason).
			Bool("ai_used", decision.AIUsed).
			Msg("decision recorded")
	}
	return nil
}

// GetUserHistory delegates to the underlying store.
func (l *Logger) GetUserHistory(ctx context.Context, userID string, action models.Action, limit int) ([]models.Decision, error) {
	return l.store.GetUserHistory(ctx, userID, action, limit)
}

// GetAll delegates to the underlying store.
func (l *Logger) GetAll(ctx context.Context) ([]models.Decision, error) {
	return l.store.GetAll(ctx)
}

// Stats delegates to the underlying store.
func (l *Logger) Stats(ctx context.Context) (Stats, error) {
	return l.store.Stats(ctx)
}
