// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.AuthMode = "jwt"
	cfg.Security.JWTSecret = "a-secret-that-is-at-least-32-characters-long"
	cfg.Security.AdminUsername = "admin"
	cfg.Security.AdminPassword = "Tr0ub4dor&3-correct-horse-battery"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port > 65535")
	}
}

func TestValidate_AuthModeRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Security.AuthMode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid auth mode")
	}
}

func TestValidate_AuthModeNoneRejectedInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Security.AuthMode = "none"
	cfg.Server.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for AUTH_MODE=none in production")
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short JWT secret")
	}
}

func TestValidate_JWTSecretPlaceholder(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTSecret = "CHANGEME-CHANGEME-CHANGEME-CHANGEME-CHANGEME"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for placeholder JWT secret")
	}
}

func TestValidate_WildcardCORSRejectedInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Environment = "production"
	cfg.Security.CORSOrigins = []string{"*"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for wildcard CORS in production")
	}
}

func TestValidate_WildcardCORSAllowedInDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Environment = "development"
	cfg.Security.CORSOrigins = []string{"*"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error for wildcard CORS in development, got: %v", err)
	}
}

func TestValidate_RateLimitBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for rate limit requests below minimum")
	}

	cfg = validConfig()
	cfg.Security.RateLimitWindow = time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for rate limit window below minimum")
	}
}

func TestValidate_RateLimitDisabledSkipsBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected disabled rate limiting to skip bounds check, got: %v", err)
	}
}

func TestValidate_EngineDedupRequiresPositiveCapacity(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Dedup.ExpectedFingerprints = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero dedup capacity")
	}
}

func TestValidate_EngineFrequencyQuietHoursRange(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Frequency.QuietHStart = 24
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for quiet hours start out of range")
	}
}

func TestValidate_ScoringEnabledRequiresAPIKeyAndURL(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Scoring.Enabled = true
	cfg.Engine.Scoring.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for scoring enabled without api key")
	}

	cfg.Engine.Scoring.APIKey = "test-key"
	cfg.Engine.Scoring.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for scoring enabled without base url")
	}

	cfg.Engine.Scoring.BaseURL = "https://scorer.internal"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid scoring config, got: %v", err)
	}
}

func TestValidate_AuditBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Audit.Backend = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown audit backend")
	}

	cfg.Audit.Backend = "duckdb"
	cfg.Audit.DuckDBPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for duckdb backend without a path")
	}
}

func TestValidate_LogLevelAndFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}

	cfg = validConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestIsProductionAndIsDevelopment(t *testing.T) {
	cfg := validConfig()

	cfg.Server.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected production environment to report IsProduction true")
	}

	cfg.Server.Environment = "development"
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("expected development environment to report IsDevelopment true")
	}

	cfg.Server.Environment = ""
	if !cfg.IsDevelopment() {
		t.Error("expected empty environment to default to development")
	}
}
