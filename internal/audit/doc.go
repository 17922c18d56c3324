// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package audit records every prioritization Decision the engine makes and
// lets callers replay a user's decision history or pull aggregate stats.
//
// # Overview
//
// The audit trail provides:
//   - A Store interface with an in-memory default and an optional DuckDB
//     backend (build with -tags duckdb) for durability across restarts
//   - Per-user history lookups, optionally filtered by action
//   - Aggregate Stats: suppression rate and deferred rate across the log
//
// # Architecture
//
// Unlike a buffered security-event logger, Logger.Record is synchronous:
// the prioritizer's safety-net invariants and the history read path both
// depend on a decision being durable the instant Record returns, so there
// is no background writer or buffered channel to drain.
//
//	Prioritizer -> Logger.Record() -> Store (memory or DuckDB)
//
// # Usage Example
//
//	store := audit.NewMemoryStore(0)
//	logger := audit.NewLogger(store, true)
//	logger.Record(ctx, decision)
//
//	history, _ := logger.GetUserHistory(ctx, userID, models.ActionNow, 50)
//	stats, _ := logger.Stats(ctx)
package audit
