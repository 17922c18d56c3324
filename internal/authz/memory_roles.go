// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package authz

import (
	"context"
	"sync"

	"github.com/northlane-labs/notifyguard/internal/models"
)

// MemoryRoleProvider is a process-lifetime RoleProvider. The engine has no
// user-account database of its own (spec.md §1's Non-goals exclude
// multi-tenant isolation); operator roles are assigned at runtime via
// AssignRole/RevokeRole and held in memory, seeded from config at startup.
type MemoryRoleProvider struct {
	mu    sync.RWMutex
	roles map[string]*models.UserRole
	audit []*models.RoleAuditEntry
}

// NewMemoryRoleProvider builds a RoleProvider seeded with the given
// userID→role assignments (typically from config).
func NewMemoryRoleProvider(seed map[string]string) *MemoryRoleProvider {
	p := &MemoryRoleProvider{
		roles: make(map[string]*models.UserRole, len(seed)),
	}
	for userID, role := range seed {
		p.roles[userID] = models.NewUserRole(userID, userID, role, "config")
	}
	return p
}

// GetUserRole returns the stored role for userID, or ErrRoleNotFound.
func (p *MemoryRoleProvider) GetUserRole(_ context.Context, userID string) (*models.UserRole, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, ok := p.roles[userID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	cp := *r
	return &cp, nil
}

// GetEffectiveRole returns the stored role, or viewer if unassigned — it
// never returns ErrRoleNotFound, matching RoleProvider's "not found is not
// an error" contract.
func (p *MemoryRoleProvider) GetEffectiveRole(_ context.Context, userID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if r, ok := p.roles[userID]; ok {
		return r.Role, nil
	}
	return models.RoleViewer, nil
}

// SetUserRole assigns or updates a role and appends an audit entry.
func (p *MemoryRoleProvider) SetUserRole(_ context.Context, role *models.UserRole, actorID, actorUsername, reason string) (*models.UserRole, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := ""
	if existing, ok := p.roles[role.UserID]; ok {
		prev = existing.Role
	}
	p.roles[role.UserID] = role
	p.audit = append(p.audit, &models.RoleAuditEntry{
		TargetUserID: role.UserID,
		ActorID:      actorID,
		ActorName:    actorUsername,
		PreviousRole: prev,
		NewRole:      role.Role,
		Reason:       reason,
		At:           role.UpdatedAt,
	})
	return role, nil
}

// DeleteUserRole removes a user's role assignment.
func (p *MemoryRoleProvider) DeleteUserRole(_ context.Context, userID, actorID, actorUsername, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, ok := p.roles[userID]
	if !ok {
		return ErrRoleNotFound
	}
	delete(p.roles, userID)
	p.audit = append(p.audit, &models.RoleAuditEntry{
		TargetUserID: userID,
		ActorID:      actorID,
		ActorName:    actorUsername,
		PreviousRole: existing.Role,
		Reason:       reason,
	})
	return nil
}

// AuditRoleChange appends a pre-built audit entry, used when the caller has
// already assembled the entry (e.g. the Service itself records this path
// when neither Set nor Delete already did).
func (p *MemoryRoleProvider) AuditRoleChange(_ context.Context, entry *models.RoleAuditEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audit = append(p.audit, entry)
	return nil
}

// IsUserAdmin reports whether userID currently holds the admin role.
func (p *MemoryRoleProvider) IsUserAdmin(_ context.Context, userID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, ok := p.roles[userID]
	return ok && r.Role == models.RoleAdmin, nil
}
