// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build integration && duckdb

package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/northlane-labs/notifyguard/internal/models"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory DuckDB: %v", err)
	}

	return db, func() { db.Close() }
}

func TestDuckDBStoreCreateTable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDuckDBStore(db)
	if err := store.CreateTable(context.Background()); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
}

func TestDuckDBStoreRecordAndGetAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDuckDBStore(db)
	ctx := context.Background()
	if err := store.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	d := &models.Decision{
		EventID:   "evt-1",
		UserID:    "user1",
		Action:    models.ActionNow,
		Score:     0.9,
		Reason:    "security alert",
		DecidedAt: time.Now(),
	}
	if err := store.Record(ctx, d); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(all))
	}
	if all[0].UserID != "user1" || all[0].Action != models.ActionNow {
		t.Errorf("unexpected decision: %+v", all[0])
	}
}

func TestDuckDBStoreGetUserHistoryFiltersByAction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDuckDBStore(db)
	ctx := context.Background()
	if err := store.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	now := time.Now()
	store.Record(ctx, &models.Decision{EventID: "e1", UserID: "user1", Action: models.ActionNow, DecidedAt: now.Add(-2 * time.Minute)})
	store.Record(ctx, &models.Decision{EventID: "e2", UserID: "user1", Action: models.ActionLater, DecidedAt: now.Add(-1 * time.Minute)})
	store.Record(ctx, &models.Decision{EventID: "e3", UserID: "user2", Action: models.ActionNow, DecidedAt: now})

	history, err := store.GetUserHistory(ctx, "user1", models.ActionLater, 10)
	if err != nil {
		t.Fatalf("GetUserHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].EventID != "e2" {
		t.Fatalf("expected only e2, got %+v", history)
	}
}

func TestDuckDBStoreStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDuckDBStore(db)
	ctx := context.Background()
	if err := store.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	now := time.Now()
	store.Record(ctx, &models.Decision{EventID: "e1", UserID: "user1", Action: models.ActionNow, DecidedAt: now})
	store.Record(ctx, &models.Decision{EventID: "e2", UserID: "user1", Action: models.ActionNever, DecidedAt: now})

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("expected total 2, got %d", stats.Total)
	}
	if stats.SuppressionRate != 50.0 {
		t.Errorf("expected suppression_rate 50.0, got %f", stats.SuppressionRate)
	}
}
