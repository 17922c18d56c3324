// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build !duckdb

package main

import (
	"context"
	"fmt"

	"github.com/northlane-labs/notifyguard/internal/audit"
	"github.com/northlane-labs/notifyguard/internal/events"
)

// openDuckDBAuditStore always fails: the binary must be built with
// -tags duckdb for AUDIT_BACKEND=duckdb to be usable.
func openDuckDBAuditStore(_ context.Context, _ string, _ *events.Bus) (audit.Store, func(context.Context) error, error) {
	return nil, nil, fmt.Errorf("audit: AUDIT_BACKEND=duckdb requires building with -tags duckdb")
}
