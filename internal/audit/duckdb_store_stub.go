// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build !duckdb

package audit

import (
	"context"
	"database/sql"
	"errors"

	"github.com/northlane-labs/notifyguard/internal/models"
)

// ErrDuckDBNotBuilt is returned by every DuckDBStore method when the
// binary was built without the duckdb tag.
var ErrDuckDBNotBuilt = errors.New("audit: built without -tags duckdb")

// DuckDBStore is a no-op stand-in so callers can reference the type
// without a build-tag-gated import graph. Build with -tags duckdb for a
// working implementation.
type DuckDBStore struct{}

// NewDuckDBStore always returns a non-functional store.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{}
}

func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	return ErrDuckDBNotBuilt
}

func (s *DuckDBStore) Record(ctx context.Context, decision *models.Decision) error {
	return ErrDuckDBNotBuilt
}

func (s *DuckDBStore) GetUserHistory(ctx context.Context, userID string, action models.Action, limit int) ([]models.Decision, error) {
	return nil, ErrDuckDBNotBuilt
}

func (s *DuckDBStore) GetAll(ctx context.Context) ([]models.Decision, error) {
	return nil, ErrDuckDBNotBuilt
}

func (s *DuckDBStore) Stats(ctx context.Context) (Stats, error) {
	return Stats{}, ErrDuckDBNotBuilt
}
