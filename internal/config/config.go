// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for the server, API, security/RBAC,
// logging, and the notification prioritization engine's tunables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Server.Port, cfg.Engine.Dedup.ExpectedFingerprints, etc. are now populated
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Engine   EngineConfig   `koanf:"engine"`
	Audit    AuditConfig    `koanf:"audit"`
	Events   EventsConfig   `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// APIConfig holds API pagination and response settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`

	// BasicAuthDefaultRole is assigned to Basic Auth users other than
	// AdminUsername, which is always elevated to the admin role.
	BasicAuthDefaultRole string `koanf:"basic_auth_default_role"`

	// Casbin RBAC authorization
	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig holds Casbin RBAC authorization settings.
//
// Environment Variables:
//   - CASBIN_MODEL_PATH: Path to Casbin model file (default: embedded)
//   - CASBIN_POLICY_PATH: Path to Casbin policy file (default: embedded)
//   - CASBIN_DEFAULT_ROLE: Default role for subjects without an explicit role (default: viewer)
//   - CASBIN_AUTO_RELOAD: Enable automatic policy reload (default: true)
//   - CASBIN_RELOAD_INTERVAL: Policy reload interval (default: 30s)
//   - CASBIN_CACHE_ENABLED: Enable authorization decision caching (default: true)
//   - CASBIN_CACHE_TTL: Authorization cache TTL (default: 5m)
type CasbinConfig struct {
	ModelPath      string        `koanf:"model_path"`
	PolicyPath     string        `koanf:"policy_path"`
	DefaultRole    string        `koanf:"default_role"`
	AutoReload     bool          `koanf:"auto_reload"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
	CacheEnabled   bool          `koanf:"cache_enabled"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// EngineConfig holds tunables for the notification prioritization pipeline:
// deduplication, frequency capping, the in-memory KV store backing both,
// and the AI scorer's availability/rate-limit/circuit-breaker behavior.
type EngineConfig struct {
	Dedup     DedupConfig     `koanf:"dedup"`
	Frequency FrequencyConfig `koanf:"frequency"`
	KVStore   KVStoreConfig   `koanf:"kvstore"`
	Scoring   ScoringConfig   `koanf:"scoring"`
	RulesPath string          `koanf:"rules_path"` // optional YAML file of additional rules; empty = defaults only
}

// DedupConfig holds Bloom-filter deduplication settings.
type DedupConfig struct {
	ExpectedFingerprints int `koanf:"expected_fingerprints"`
}

// FrequencyConfig holds per-user notification frequency-capping settings.
type FrequencyConfig struct {
	Window      time.Duration `koanf:"window"`
	MaxPerUser  int           `koanf:"max_per_user"`
	QuietHStart int           `koanf:"quiet_hours_start"` // 0-23, local hour
	QuietHEnd   int           `koanf:"quiet_hours_end"`   // 0-23, local hour
}

// KVStoreConfig holds settings for the in-memory key/value store shared by
// the dedup and frequency checkers.
type KVStoreConfig struct {
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// ScoringConfig holds the AI contextual scorer's availability, rate limit,
// and circuit breaker settings.
type ScoringConfig struct {
	Enabled             bool          `koanf:"enabled"`
	RateLimitPerSecond  float64       `koanf:"rate_limit_per_second"`
	RateLimitBurst      int           `koanf:"rate_limit_burst"`
	BreakerFailThresh   uint32        `koanf:"breaker_fail_threshold"`
	BreakerOpenDuration time.Duration `koanf:"breaker_open_duration"`
	BreakerMaxProbes    uint32        `koanf:"breaker_max_probes"`
	BaseURL             string        `koanf:"base_url"` // contextual scoring backend, required when Enabled
	APIKey              string        `koanf:"api_key"`  // masked in logs via MaskCredential
}

// AuditConfig holds decision audit-log settings.
//
// Environment Variables:
//   - AUDIT_BACKEND: "memory" or "duckdb" (default: memory)
//   - AUDIT_MAX_MEMORY_ENTRIES: ring-buffer size for the memory backend
//   - AUDIT_DUCKDB_PATH: DuckDB database file path (duckdb backend only)
//   - AUDIT_LOG_TO_STDOUT: mirror recorded decisions to structured logs
type AuditConfig struct {
	Backend           string `koanf:"backend"` // "memory" | "duckdb"
	MaxMemoryEntries  int    `koanf:"max_memory_entries"`
	DuckDBPath        string `koanf:"duckdb_path"`
	LogDecisionsToLog bool   `koanf:"log_to_stdout"`
}

// EventsConfig holds decision event-bus settings.
type EventsConfig struct {
	Verbose bool `koanf:"verbose"`
}
