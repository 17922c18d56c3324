// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package models defines the data types shared across the decision pipeline:
// the inbound NotificationEvent, the outbound Decision, the declarative Rule,
// and the operator-surface request/response wrappers.
package models

import "time"

// PriorityHint is the caller-asserted urgency of a NotificationEvent.
type PriorityHint string

const (
	PriorityCritical PriorityHint = "critical"
	PriorityHigh     PriorityHint = "high"
	PriorityMedium   PriorityHint = "medium"
	PriorityLow      PriorityHint = "low"
)

// IsUrgent reports whether the hint is critical or high — the two tiers the
// safety net refuses to let collapse to NEVER.
func (p PriorityHint) IsUrgent() bool {
	return p == PriorityCritical || p == PriorityHigh
}

// Channel is the delivery surface a NotificationEvent targets.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
)

// Common event types. Callers may send others; unrecognized types fall back
// to the engine's default caps and scores rather than being rejected.
const (
	EventTypeSecurityAlert = "security_alert"
	EventTypeMessage       = "message"
	EventTypeReminder      = "reminder"
	EventTypeUpdate        = "update"
	EventTypePromotion     = "promotion"
	EventTypeAlert         = "alert"
	EventTypeSystemEvent   = "system_event"
)

// NotificationEvent is an inbound event awaiting a dispatch decision.
type NotificationEvent struct {
	ID string `json:"id,omitempty"`

	UserID  string  `json:"user_id"`
	Channel Channel `json:"channel"`

	EventType    string       `json:"event_type"`
	PriorityHint PriorityHint `json:"priority_hint,omitempty"`

	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`

	Timestamp time.Time  `json:"timestamp,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	DedupeKey string `json:"dedupe_key,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// IsExpired reports whether ExpiresAt is set and strictly in the past.
func (e *NotificationEvent) IsExpired() bool {
	if e.ExpiresAt == nil {
		return false
	}
	return e.ExpiresAt.Before(time.Now())
}

// QuietHours reads the metadata.quiet_hours flag, defaulting to false for
// missing or non-boolean values.
func (e *NotificationEvent) QuietHours() bool {
	if e.Metadata == nil {
		return false
	}
	v, ok := e.Metadata["quiet_hours"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Attribute resolves a field name against the event's own attributes first,
// then falls back to Metadata. Returns (value, true) if the field is known —
// including a known field whose value is the zero value — or (nil, false) if
// the field is neither a recognized attribute nor present in Metadata.
func (e *NotificationEvent) Attribute(field string) (any, bool) {
	switch field {
	case "user_id":
		return e.UserID, true
	case "channel":
		return string(e.Channel), true
	case "event_type":
		return e.EventType, true
	case "priority_hint":
		if e.PriorityHint == "" {
			return nil, true
		}
		return string(e.PriorityHint), true
	case "title":
		return e.Title, true
	case "message":
		return e.Message, true
	case "source":
		return e.Source, true
	case "dedupe_key":
		return e.DedupeKey, true
	}

	if e.Metadata == nil {
		return nil, false
	}
	v, ok := e.Metadata[field]
	return v, ok
}

// Action is the engine's verdict for a NotificationEvent.
type Action string

const (
	ActionNow   Action = "NOW"
	ActionLater Action = "LATER"
	ActionNever Action = "NEVER"
)

// Decision is the outcome of evaluating one NotificationEvent.
type Decision struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`

	Action Action  `json:"action"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`

	RuleMatched string `json:"rule_matched,omitempty"`

	AIUsed       bool `json:"ai_used"`
	FallbackMode bool `json:"fallback_mode"`

	DecidedAt     time.Time  `json:"decided_at"`
	DeferredUntil *time.Time `json:"deferred_until,omitempty"`
}

// ScoreResult is the output of either scorer implementation.
type ScoreResult struct {
	Score        float64
	Reason       string
	AIUsed       bool
	FallbackMode bool
}
