// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build duckdb

// Package audit provides decision audit logging with DuckDB persistence.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/northlane-labs/notifyguard/internal/logging"
	"github.com/northlane-labs/notifyguard/internal/models"
)

// DuckDBStore implements Store using DuckDB for durable, queryable
// retention across restarts.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore wraps an already-open DuckDB connection. The caller is
// responsible for ensuring the decisions table exists via CreateTable.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// CreateTable creates the decisions table if it doesn't exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS decisions (
			event_id       TEXT NOT NULL,
			user_id        TEXT NOT NULL,
			action         TEXT NOT NULL,
			score          DOUBLE NOT NULL,
			reason         TEXT NOT NULL,
			rule_matched   TEXT,
			ai_used        BOOLEAN NOT NULL,
			fallback_mode  BOOLEAN NOT NULL,
			decided_at     TIMESTAMPTZ NOT NULL,
			deferred_until TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_user_id ON decisions(user_id);
		CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create decisions table: %w", err)
	}
	logging.Info().Msg("decisions table created/verified")
	return nil
}

// Record inserts decision as a new row.
func (s *DuckDBStore) Record(ctx context.Context, decision *models.Decision) error {
	const insert = `
		INSERT INTO decisions (
			event_id, user_id, action, score, reason, rule_matched,
			ai_used, fallback_mode, decided_at, deferred_until
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, insert,
		decision.EventID, decision.UserID, string(decision.Action), decision.Score, decision.Reason,
		nullableString(decision.RuleMatched), decision.AIUsed, decision.FallbackMode,
		decision.DecidedAt, decision.DeferredUntil,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// GetUserHistory returns the last limit decisions for userID in
// insertion order, optionally filtered by action.
func (s *DuckDBStore) GetUserHistory(ctx context.Context, userID string, action models.Action, limit int) ([]models.Decision, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT event_id, user_id, action, score, reason, rule_matched,
		       ai_used, fallback_mode, decided_at, deferred_until
		FROM decisions
		WHERE user_id = ?
	`
	args := []any{userID}
	if action != "" {
		query += " AND action = ?"
		args = append(args, string(action))
	}
	query += " ORDER BY decided_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user history: %w", err)
	}
	defer rows.Close()

	decisions, err := scanDecisions(rows)
	if err != nil {
		return nil, err
	}
	reverse(decisions)
	return decisions, nil
}

// GetAll returns every recorded decision in insertion order.
func (s *DuckDBStore) GetAll(ctx context.Context) ([]models.Decision, error) {
	const query = `
		SELECT event_id, user_id, action, score, reason, rule_matched,
		       ai_used, fallback_mode, decided_at, deferred_until
		FROM decisions
		ORDER BY decided_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// Stats computes aggregate counts and rates across the whole log.
func (s *DuckDBStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions").Scan(&stats.Total); err != nil {
		return Stats{}, fmt.Errorf("failed to count decisions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT action, COUNT(*) FROM decisions GROUP BY action")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get action counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action string
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan action count: %w", err)
		}
		switch models.Action(action) {
		case models.ActionNow:
			stats.NowCount = count
		case models.ActionLater:
			stats.LaterCount = count
		case models.ActionNever:
			stats.NeverCount = count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("error iterating action counts: %w", err)
	}

	denominator := float64(stats.Total)
	if denominator < 1 {
		denominator = 1
	}
	stats.SuppressionRate = math.Round(100*float64(stats.NeverCount)/denominator*10) / 10
	stats.DeferredRate = math.Round(100*float64(stats.LaterCount)/denominator*10) / 10

	return stats, nil
}

func scanDecisions(rows *sql.Rows) ([]models.Decision, error) {
	var out []models.Decision
	for rows.Next() {
		var d models.Decision
		var action string
		var ruleMatched sql.NullString
		if err := rows.Scan(&d.EventID, &d.UserID, &action, &d.Score, &d.Reason, &ruleMatched,
			&d.AIUsed, &d.FallbackMode, &d.DecidedAt, &d.DeferredUntil); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		d.Action = models.Action(action)
		if ruleMatched.Valid {
			d.RuleMatched = ruleMatched.String
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision rows: %w", err)
	}
	return out, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func reverse(decisions []models.Decision) {
	for i, j := 0, len(decisions)-1; i < j; i, j = i+1, j-1 {
		decisions[i], decisions[j] = decisions[j], decisions[i]
	}
}
