// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package models

import "time"

// Operator roles, enforced by internal/authz's casbin policy.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// EvaluateRequest is the HTTP envelope around NotificationEvent for
// POST /api/v1/evaluate.
type EvaluateRequest struct {
	Event NotificationEvent `json:"event"`
}

// EvaluateResponse is the HTTP envelope around Decision.
type EvaluateResponse struct {
	Decision Decision `json:"decision"`
}

// RuleRequest is the wire shape accepted by POST /api/v1/rules — a single
// rule, or (per spec.md §6's "Rule file format") a JSON array of these.
type RuleRequest struct {
	Name       string      `json:"name" validate:"required"`
	Priority   int         `json:"priority"`
	Conditions []Condition `json:"conditions" validate:"required,min=1"`
	Action     Action      `json:"action" validate:"required,oneof=NOW LATER NEVER"`
	Reason     string      `json:"reason"`
}

// ForceDispatchRequest is bookkeeping-only per spec.md §9's Open Questions:
// force-dispatch has no re-evaluation semantics in the core, only an audit
// trail of the override request.
type ForceDispatchRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
	Actor   string `json:"actor,omitempty"`
}

// ComponentStatus reports the health of one pipeline dependency.
type ComponentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// HealthResponse is the shape of GET /api/v1/health.
type HealthResponse struct {
	Status       string            `json:"status"`
	FallbackMode bool              `json:"fallback_mode"`
	Components   []ComponentStatus `json:"components"`
	CheckedAt    time.Time         `json:"checked_at"`
}

// StatsResponse is the shape of GET /api/v1/stats, mirroring
// AuditLog.Stats().
type StatsResponse struct {
	Total           int64   `json:"total"`
	CountByAction   map[Action]int64 `json:"count_by_action"`
	SuppressionRate float64 `json:"suppression_rate"`
	DeferredRate    float64 `json:"deferred_rate"`
}
