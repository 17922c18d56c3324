// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"

	"github.com/northlane-labs/notifyguard/internal/audit"
	"github.com/northlane-labs/notifyguard/internal/authz"
	"github.com/northlane-labs/notifyguard/internal/engine"
	"github.com/northlane-labs/notifyguard/internal/events"
	"github.com/northlane-labs/notifyguard/internal/logging"
	"github.com/northlane-labs/notifyguard/internal/models"
	"github.com/northlane-labs/notifyguard/internal/rules"
	"github.com/northlane-labs/notifyguard/internal/scoring"
	ws "github.com/northlane-labs/notifyguard/internal/websocket"
)

// This file contains the core API endpoints for the notification
// prioritization service.
//
// Endpoints in this file:
//   - Evaluate: score one NotificationEvent, return a Decision
//   - History: paginated decision history for a user
//   - Health: component status + fallback-mode flag
//   - Stats: aggregate counts by action
//   - WebSocket: live decision stream
//
// All handlers follow a consistent pattern:
//  1. Method validation (enforced by the router, not re-checked per handler)
//  2. Request decoding and validation
//  3. Delegate to the Prioritizer/rules.Engine/audit.Store
//  4. JSON response via ResponseWriter

// Handler holds the dependencies shared by every route.
type Handler struct {
	prioritizer *engine.Prioritizer
	rules       *rules.Engine
	auditLog    audit.Store
	wsHub       *ws.Hub
	bus         *events.Bus
	authz       *authz.Service
	aiScorer    *scoring.AIScorer
	corsOrigins []string
	startTime   time.Time
}

// NewHandler wires a Handler from its required dependencies. bus and authzSvc
// may be nil: a nil bus disables the live feed, a nil authzSvc falls back to
// token-only role checks (see handler_context.go).
func NewHandler(prioritizer *engine.Prioritizer, rulesEngine *rules.Engine, auditLog audit.Store, wsHub *ws.Hub, bus *events.Bus, authzSvc *authz.Service, aiScorer *scoring.AIScorer, corsOrigins []string) *Handler {
	return &Handler{
		prioritizer: prioritizer,
		rules:       rulesEngine,
		auditLog:    auditLog,
		wsHub:       wsHub,
		bus:         bus,
		authz:       authzSvc,
		aiScorer:    aiScorer,
		corsOrigins: corsOrigins,
		startTime:   time.Now(),
	}
}

// Evaluate handles POST /api/v1/evaluate: scores one inbound
// NotificationEvent and returns the Decision. This is the hot path every
// other endpoint exists to support.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if apiErr := validateRequest(&req.Event); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	decision, err := h.prioritizer.Evaluate(r.Context(), &req.Event)
	if err != nil {
		logging.Error().Err(err).Str("event_id", req.Event.ID).Msg("failed to evaluate event")
		rw.InternalError("failed to evaluate event")
		return
	}

	if h.bus != nil {
		if err := h.bus.PublishDecision(decision); err != nil {
			logging.Warn().Err(err).Str("event_id", decision.EventID).Msg("failed to publish decision to event bus")
		}
	}

	rw.Success(models.EvaluateResponse{Decision: *decision})
}

// History handles GET /api/v1/history/{user_id}: returns the decision
// history for a user, optionally filtered by action.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		rw.BadRequest("user_id is required")
		return
	}

	hctx := GetHandlerContextWithAuthz(r, h.authz)
	if err := hctx.RequireAccessToUser(userID); err != nil {
		RespondAuthError(w, r, err)
		return
	}

	req := HistoryRequest{
		Action: r.URL.Query().Get("action"),
		Limit:  getIntParam(r, "limit", 50),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	decisions, err := h.auditLog.GetUserHistory(r.Context(), userID, models.Action(req.Action), req.Limit)
	if err != nil {
		logging.Error().Err(err).Str("user_id", sanitizeLogValue(userID)).Msg("failed to fetch decision history")
		rw.InternalError("failed to fetch decision history")
		return
	}

	rw.SuccessWithPagination(decisions, &PaginationMeta{
		Count: len(decisions),
		Limit: req.Limit,
	})
}

// Health handles GET /api/v1/health: reports status "ok" iff the AI
// scorer's circuit breaker is closed (else "degraded"), per-component
// status, and whether the AI scorer is currently running in fallback mode.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	breakerState := "closed"
	fallbackMode := false
	if h.aiScorer != nil {
		breakerState = h.aiScorer.BreakerState()
		fallbackMode = h.aiScorer.FallbackMode()
	}

	breakerStatus := "ok"
	status := "ok"
	if breakerState != "closed" {
		breakerStatus = "degraded"
		status = "degraded"
	}

	components := []models.ComponentStatus{
		{Name: "prioritizer", Status: "ok"},
		{Name: "rules_engine", Status: "ok"},
		{Name: "audit_log", Status: "ok"},
		{Name: "ai_scorer_breaker", Status: breakerStatus},
	}

	if _, err := h.auditLog.Stats(r.Context()); err != nil {
		status = "degraded"
		components = append(components, models.ComponentStatus{Name: "audit_log", Status: "error"})
	}

	rw.Success(models.HealthResponse{
		Status:       status,
		FallbackMode: fallbackMode,
		Components:   components,
		CheckedAt:    time.Now(),
	})
}

// HealthLive handles GET /api/v1/health/live: a liveness probe that only
// reports whether the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// Stats handles GET /api/v1/stats: aggregate decision counts and rates.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.auditLog.Stats(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("failed to compute decision stats")
		rw.InternalError("failed to compute decision stats")
		return
	}

	rw.Success(models.StatsResponse{
		Total: stats.Total,
		CountByAction: map[models.Action]int64{
			models.ActionNow:   stats.NowCount,
			models.ActionLater: stats.LaterCount,
			models.ActionNever: stats.NeverCount,
		},
		SuppressionRate: stats.SuppressionRate,
		DeferredRate:    stats.DeferredRate,
	})
}

// getUpgrader creates a WebSocket upgrader with proper origin checking and
// handshake timeout.
func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. A missing
// Origin header is rejected: legitimate browser WebSockets always send one,
// and allowing it through would bypass CORS entirely.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("websocket connection rejected: missing Origin header")
		return false
	}

	if len(h.corsOrigins) == 0 {
		return true
	}

	for _, allowed := range h.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}

// WebSocket handles GET /ws/decisions: upgrades the connection and
// registers a new client on the hub to receive the live decision feed.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "websocket hub unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
