// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

/*
Package config provides centralized configuration management for the
notification prioritization service.

This package handles loading, validation, and parsing of configuration for
all application components via Koanf v2: struct defaults, an optional YAML
file, and environment variable overrides, in that precedence order.

# Configuration Sources

  - Built-in defaults (defaultConfig)
  - Optional YAML config file (config.yaml, or CONFIG_PATH)
  - Environment variables (highest priority)

# Configuration Structure

  - ServerConfig: HTTP server bind address, port, timeouts
  - APIConfig: pagination defaults/limits
  - SecurityConfig: auth mode, JWT/Basic credentials, rate limiting, CORS, Casbin RBAC
  - LoggingConfig: zerolog level/format/caller settings
  - EngineConfig: dedup, frequency-capping, KV store, and AI scoring tunables
  - AuditConfig: decision audit-log backend (memory or DuckDB)
  - EventsConfig: decision event bus settings

# Usage Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatalf("failed to load config: %v", err)
	}

	fmt.Printf("listening on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("dedup capacity: %d\n", cfg.Engine.Dedup.ExpectedFingerprints)

# Validation

Config.Validate() is called automatically by LoadWithKoanf and checks, among
other things:

  - HTTP_PORT is in the valid TCP port range
  - AUTH_MODE is recognized, and JWT_SECRET/ADMIN_USERNAME/ADMIN_PASSWORD are
    present and meet minimum strength requirements for the selected mode
  - CORS_ORIGINS=* is rejected in production when authentication is enabled
  - AUDIT_BACKEND is memory or duckdb, with AUDIT_DUCKDB_PATH required for the latter
  - SCORING_API_KEY and SCORING_BASE_URL are present when SCORING_ENABLED is true

# Security

  - JWT_SECRET and ADMIN_PASSWORD are rejected if they look like an unreplaced
    placeholder (REPLACE, CHANGEME, TODO, ...).
  - CredentialEncryptor (encryption.go) provides AES-256-GCM encryption for
    secrets that need at-rest protection, keyed from JWT_SECRET via HKDF-SHA256.
  - DefaultPasswordPolicy (password_policy.go) enforces admin password strength.

# Thread Safety

The Config struct is immutable after LoadWithKoanf returns, making it safe for
concurrent access from multiple goroutines without synchronization.
*/
package config
