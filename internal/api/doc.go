// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

/*
Package api provides the HTTP REST API layer for the notification
prioritization engine.

It exposes a small, fixed set of operator-facing endpoints rather than
a broad proxy surface: a hot path for evaluating inbound events, a read
path over the audit trail, rule CRUD, an escape hatch for forced
delivery, and operational health/stats endpoints.

Key Components:

  - Router: HTTP route configuration and middleware stack integration
  - Handler: request handlers backed by an engine.Prioritizer
  - Response formatting: standardized JSON envelope (response.go)
  - Error handling: consistent error responses with appropriate HTTP status codes
  - Authorization: role-based checks (admin/editor/viewer) via handler_context.go
  - Rate limiting: per-route token bucket limits via go-chi/httprate
  - CORS: cross-origin support for operator dashboards

Endpoints:

	POST   /api/v1/evaluate            score one NotificationEvent, return a Decision
	GET    /api/v1/history/{user_id}    paginated decision history for a user
	POST   /api/v1/rules                create a rule
	GET    /api/v1/rules                list rules
	POST   /api/v1/force-dispatch       bypass prioritization, deliver now (audited)
	GET    /api/v1/health                component status + fallback-mode flag
	GET    /api/v1/stats                 aggregate counts by action
	GET    /ws/decisions                 live decision stream over WebSocket

Usage Example:

	import (
	    "github.com/northlane-labs/notifyguard/internal/api"
	    "github.com/northlane-labs/notifyguard/internal/engine"
	)

	prioritizer := engine.New(kv, dedupChecker, rulesEngine, freqChecker, aiScorer, auditLog)
	handler := api.NewHandler(prioritizer, rulesEngine, auditLog, wsHub, bus, authzSvc, aiScorer, corsOrigins)
	router := api.NewRouter(handler, chiMiddleware)

	http.ListenAndServe(":8080", router)

Thread Safety:

All handlers are safe for concurrent use. The underlying Prioritizer,
rules engine, and audit store each guard their own mutable state.

Security:

  - JWT-based authentication via internal/auth, enforced per-route
  - Role checks (viewer read-only, editor may write rules, admin may force-dispatch)
  - Rate limiting tuned per endpoint (evaluate is the hot path, rules/force-dispatch are tighter)
  - Structured logging with log-injection sanitization (sanitizeLogValue)

See Also:

  - internal/engine: the Prioritizer pipeline this package drives
  - internal/authz: role and policy enforcement
  - internal/models: request/response wire types
  - internal/middleware: HTTP middleware components
*/
package api
