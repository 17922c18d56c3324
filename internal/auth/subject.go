// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// AuthMode represents the authentication strategy for the operator surface.
type AuthMode string

const (
	// AuthModeNone disables authentication (development only).
	AuthModeNone AuthMode = "none"

	// AuthModeBasic uses HTTP Basic Authentication.
	AuthModeBasic AuthMode = "basic"

	// AuthModeJWT uses JWT Bearer tokens.
	AuthModeJWT AuthMode = "jwt"

	// AuthModeMulti tries JWT then falls back to Basic.
	AuthModeMulti AuthMode = "multi"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "none", "":
		return AuthModeNone, nil
	case "basic":
		return AuthModeBasic, nil
	case "jwt":
		return AuthModeJWT, nil
	case "multi":
		return AuthModeMulti, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// String returns the string representation of AuthMode.
func (m AuthMode) String() string {
	return string(m)
}

// Standard authentication errors.
var (
	ErrNoCredentials            = errors.New("no credentials provided")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrExpiredCredentials       = errors.New("credentials expired")
	ErrAuthenticatorUnavailable = errors.New("authenticator unavailable")
)

// Authenticator defines the interface for authentication providers.
type Authenticator interface {
	// Authenticate extracts and validates credentials from the request.
	Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error)

	// Name returns the authenticator's name for logging.
	Name() string

	// Priority returns the authenticator's priority for multi-mode.
	// Lower values are tried first.
	Priority() int
}

// AuthSubject represents an authenticated operator.
// Normalizes claims from JWT and Basic auth into one shape that authz can
// enforce roles against.
type AuthSubject struct {
	ID         string            `json:"id"`
	Username   string            `json:"username"`
	Roles      []string          `json:"roles,omitempty"`
	Groups     []string          `json:"groups,omitempty"`
	Issuer     string            `json:"issuer,omitempty"`
	AuthMethod AuthMode          `json:"auth_method"`
	IssuedAt   int64             `json:"issued_at,omitempty"`
	ExpiresAt  int64             `json:"expires_at,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// HasRole checks if the subject has a specific role.
func (s *AuthSubject) HasRole(role string) bool {
	if role == "" {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the subject has any of the specified roles.
func (s *AuthSubject) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if s.HasRole(role) {
			return true
		}
	}
	return false
}

// IsExpired checks if the authentication has expired.
func (s *AuthSubject) IsExpired() bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return time.Now().Unix() > s.ExpiresAt
}

// subjectContextKey is the context key AuthSubjects are stored under.
type subjectContextKey struct{}

// WithAuthSubject returns a copy of ctx carrying subject.
func WithAuthSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// GetAuthSubject returns the AuthSubject stored in ctx, or nil if the
// request is unauthenticated.
func GetAuthSubject(ctx context.Context) *AuthSubject {
	subject, _ := ctx.Value(subjectContextKey{}).(*AuthSubject)
	return subject
}

// AuthSubjectFromClaims creates an AuthSubject from JWT Claims.
func AuthSubjectFromClaims(claims *Claims) *AuthSubject {
	if claims == nil {
		return nil
	}

	subject := &AuthSubject{
		ID:         claims.Username,
		Username:   claims.Username,
		AuthMethod: AuthModeJWT,
	}

	if claims.Role != "" {
		subject.Roles = []string{claims.Role}
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		subject.IssuedAt = claims.IssuedAt.Unix()
	}

	return subject
}
