// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package audit implements the append-only Decision log the prioritizer
// writes to after every evaluation, plus the read paths the operator API
// surfaces: per-user history and aggregate stats.
package audit

import (
	"context"

	"github.com/northlane-labs/notifyguard/internal/models"
)

// Store is the append-only decision log contract. Implementations must
// preserve insertion order for GetUserHistory and GetAll.
type Store interface {
	// Record appends decision to the log.
	Record(ctx context.Context, decision *models.Decision) error

	// GetUserHistory returns up to limit decisions for userID, in
	// insertion order. If action is non-empty, only decisions with that
	// action are returned. limit <= 0 defaults to 50.
	GetUserHistory(ctx context.Context, userID string, action models.Action, limit int) ([]models.Decision, error)

	// GetAll returns a defensive copy of every recorded decision, in
	// insertion order.
	GetAll(ctx context.Context) ([]models.Decision, error)

	// Stats returns aggregate counts and rates across the whole log.
	Stats(ctx context.Context) (Stats, error)
}

// Stats summarizes the decision log by action.
type Stats struct {
	Total int64 `json:"total"`

	NowCount   int64 `json:"now_count"`
	LaterCount int64 `json:"later_count"`
	NeverCount int64 `json:"never_count"`

	// SuppressionRate is 100 * NeverCount / max(Total, 1), rounded to 1 decimal.
	SuppressionRate float64 `json:"suppression_rate"`

	// DeferredRate is 100 * LaterCount / max(Total, 1), rounded to 1 decimal.
	DeferredRate float64 `json:"deferred_rate"`
}

const defaultHistoryLimit = 50
