// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package api provides HTTP request validation structs with go-playground/validator tags.
// These structs are used to validate incoming API request parameters before processing.
//
// Request bodies (evaluate, rules, force-dispatch) validate directly against
// their models.* wire types, which already carry validator tags; this file
// only holds query-parameter structs that have no models.* counterpart.
//
// The validation tags follow the go-playground/validator v10 syntax:
//   - required: field must be present and non-zero
//   - min,max: numeric or string length bounds
//   - oneof: value must be one of the specified options
//   - omitempty: skip validation if field is empty/zero
//
// Example usage:
//
//	req := HistoryRequest{
//	    Action: r.URL.Query().Get("action"),
//	    Limit:  getIntParam(r, "limit", 50),
//	}
//	if err := validateRequest(&req); err != nil {
//	    respondError(w, http.StatusBadRequest, err.Code, err.Message, nil)
//	    return
//	}
package api

// HistoryRequest represents the validated query parameters for
// GET /api/v1/history/{user_id}.
//
// Fields:
//   - Action: optional filter, one of NOW/LATER/NEVER
//   - Limit: maximum decisions to return (1-1000, default 50)
type HistoryRequest struct {
	Action string `validate:"omitempty,oneof=NOW LATER NEVER"`
	Limit  int    `validate:"omitempty,min=1,max=1000"`
}
