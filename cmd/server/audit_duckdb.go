// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build duckdb

package main

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/northlane-labs/notifyguard/internal/audit"
	"github.com/northlane-labs/notifyguard/internal/events"
)

// openDuckDBAuditStore opens path with the DuckDB driver, creates the
// decisions table if needed, and returns a durable audit.Store plus a
// pipeline function that flushes every published Decision into it.
func openDuckDBAuditStore(ctx context.Context, path string, bus *events.Bus) (audit.Store, func(context.Context) error, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, nil, err
	}
	store := audit.NewDuckDBStore(db)
	if err := store.CreateTable(ctx); err != nil {
		return nil, nil, err
	}
	flusher := events.NewDuckDBFlushSubscriber(store)
	return store, func(ctx context.Context) error { return flusher.Run(ctx, bus) }, nil
}
