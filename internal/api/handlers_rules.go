// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/northlane-labs/notifyguard/internal/logging"
	"github.com/northlane-labs/notifyguard/internal/models"
)

// This file contains the rule-management and force-dispatch endpoints:
//
//   - ListRules:     GET  /api/v1/rules
//   - CreateRule:    POST /api/v1/rules
//   - ForceDispatch: POST /api/v1/force-dispatch
//
// Rule mutations require the editor role; force-dispatch requires admin,
// since it bypasses the scoring pipeline entirely.

// ListRules returns every rule currently loaded in the engine, in
// descending-priority order — the default rules plus any operator-added
// ones.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.rules.Rules())
}

// CreateRule handles POST /api/v1/rules: adds a new rule, or replaces an
// existing one of the same name.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	hctx := GetHandlerContextWithAuthz(r, h.authz)
	if err := hctx.RequireEditor(); err != nil {
		RespondAuthError(w, r, err)
		return
	}

	var req models.RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	rule := models.Rule{
		Name:       req.Name,
		Priority:   req.Priority,
		Conditions: req.Conditions,
		Action:     req.Action,
		Reason:     req.Reason,
	}
	h.rules.AddRule(rule)

	logging.Info().Str("rule_name", sanitizeLogValue(req.Name)).Str("actor", sanitizeLogValue(hctx.UserID)).Msg("rule added")

	rw.Created(rule)
}

// ForceDispatch handles POST /api/v1/force-dispatch: records an operator
// override without re-running the scoring pipeline. Per the core design,
// this is an audit-trail entry only — it does not re-evaluate the event
// or guarantee actual delivery, since delivery is the caller's concern.
func (h *Handler) ForceDispatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	hctx := GetHandlerContextWithAuthz(r, h.authz)
	if err := hctx.RequireAdmin(); err != nil {
		RespondAuthError(w, r, err)
		return
	}

	var req models.ForceDispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = hctx.UserID
	}

	decision := &models.Decision{
		EventID:   req.EventID,
		UserID:    actor,
		Action:    models.ActionNow,
		Reason:    "force-dispatched by " + actor + ": " + req.Reason,
		DecidedAt: time.Now(),
	}

	if err := h.auditLog.Record(r.Context(), decision); err != nil {
		logging.Error().Err(err).Str("event_id", sanitizeLogValue(req.EventID)).Msg("failed to record force-dispatch override")
		rw.InternalError("failed to record force-dispatch override")
		return
	}

	if h.bus != nil {
		if err := h.bus.PublishDecision(decision); err != nil {
			logging.Warn().Err(err).Str("event_id", decision.EventID).Msg("failed to publish force-dispatch decision to event bus")
		}
	}

	logging.Info().Str("event_id", sanitizeLogValue(req.EventID)).Str("actor", sanitizeLogValue(actor)).Msg("force-dispatch recorded")

	rw.Created(decision)
}
