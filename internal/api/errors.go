// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package api provides HTTP handlers for the notification prioritization service.
//
// errors.go - Common API error definitions
package api

import "errors"

// Common API errors
var (
	// ErrAIScorerUnavailable indicates the AI scorer was not configured at startup.
	ErrAIScorerUnavailable = errors.New("ai scorer is not available")

	// ErrRuleNotFound indicates a rule name referenced by the caller does not exist.
	ErrRuleNotFound = errors.New("rule not found")
)
