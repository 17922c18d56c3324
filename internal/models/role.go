// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package models

import "time"

// IsValidRole reports whether role is one of the three operator roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// UserRole is an operator's assigned role, as tracked outside the JWT/Basic
// auth token itself (e.g. a role assigned by an admin after onboarding).
type UserRole struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	AssignedBy string   `json:"assigned_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserRole constructs a UserRole stamped with the current time.
func NewUserRole(userID, username, role, assignedBy string) *UserRole {
	return &UserRole{
		UserID:     userID,
		Username:   username,
		Role:       role,
		AssignedBy: assignedBy,
		UpdatedAt:  time.Now(),
	}
}

// RoleAuditEntry records a role assignment or revocation for the authz audit
// trail.
type RoleAuditEntry struct {
	TargetUserID string    `json:"target_user_id"`
	ActorID      string    `json:"actor_id"`
	ActorName    string    `json:"actor_name"`
	PreviousRole string    `json:"previous_role,omitempty"`
	NewRole      string    `json:"new_role,omitempty"`
	Reason       string    `json:"reason"`
	At           time.Time `json:"at"`
}
