// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/northlane-labs/notifyguard/internal/api"
	"github.com/northlane-labs/notifyguard/internal/audit"
	"github.com/northlane-labs/notifyguard/internal/auth"
	"github.com/northlane-labs/notifyguard/internal/authz"
	"github.com/northlane-labs/notifyguard/internal/breaker"
	"github.com/northlane-labs/notifyguard/internal/config"
	"github.com/northlane-labs/notifyguard/internal/dedup"
	"github.com/northlane-labs/notifyguard/internal/engine"
	"github.com/northlane-labs/notifyguard/internal/events"
	"github.com/northlane-labs/notifyguard/internal/frequency"
	"github.com/northlane-labs/notifyguard/internal/kvstore"
	"github.com/northlane-labs/notifyguard/internal/logging"
	"github.com/northlane-labs/notifyguard/internal/metrics"
	"github.com/northlane-labs/notifyguard/internal/rules"
	"github.com/northlane-labs/notifyguard/internal/scoring"
	"github.com/northlane-labs/notifyguard/internal/supervisor"
	"github.com/northlane-labs/notifyguard/internal/supervisor/services"
	ws "github.com/northlane-labs/notifyguard/internal/websocket"
	"golang.org/x/time/rate"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup wiring, not branchy logic
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.SetAppInfo(version, runtime.Version())

	logging.Info().
		Str("auth_mode", cfg.Security.AuthMode).
		Str("audit_backend", cfg.Audit.Backend).
		Bool("scoring_enabled", cfg.Engine.Scoring.Enabled).
		Msg("Starting notifyguard with supervisor tree")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is disabled — not recommended in production")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Strs("cors_origins", cfg.Security.CORSOrigins).
			Msg("CORS is configured with a wildcard origin alongside authentication")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === KV store: shared state for dedup, frequency capping, and the
	// AI scorer's rate limiter ===
	kv := kvstore.NewMemoryStore(cfg.Engine.KVStore.SweepInterval)
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing KV store")
		}
	}()

	dedupChecker := dedup.New(kv, cfg.Engine.Dedup.ExpectedFingerprints)
	freqChecker := frequency.New(kv)

	rulesEngine := rules.NewEngine()
	for _, rule := range rules.DefaultRules() {
		rulesEngine.AddRule(rule)
	}
	logging.Info().Int("count", len(rulesEngine.Rules())).Msg("Rules engine loaded")

	// === AI scorer: simulated contextual model behind a rate limiter and
	// circuit breaker; falls back to the deterministic scorer whenever it
	// is disabled, rate-limited, or tripped ===
	var limiter *rate.Limiter
	if cfg.Engine.Scoring.Enabled && cfg.Engine.Scoring.RateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Engine.Scoring.RateLimitPerSecond), cfg.Engine.Scoring.RateLimitBurst)
	}
	breakerCfg := breaker.Config{
		Name:             "ai-scorer",
		FailureThreshold: uint32(cfg.Engine.Scoring.BreakerFailThresh),
		MaxRequests:      uint32(cfg.Engine.Scoring.BreakerMaxProbes),
		Timeout:          cfg.Engine.Scoring.BreakerOpenDuration,
	}
	aiScorer := scoring.NewAIScorer(cfg.Engine.Scoring.Enabled, breaker.New(breakerCfg), limiter)

	// === Audit log: memory by default, DuckDB with -tags duckdb ===
	bus := events.New(cfg.Events.Verbose)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing decision event bus")
		}
	}()

	var auditStore audit.Store
	var pipelineFlush func(context.Context) error
	switch cfg.Audit.Backend {
	case "duckdb":
		store, flush, err := openDuckDBAuditStore(ctx, cfg.Audit.DuckDBPath, bus)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize DuckDB audit store")
		}
		auditStore = store
		pipelineFlush = flush
		logging.Info().Str("path", cfg.Audit.DuckDBPath).Msg("DuckDB audit store initialized")
	default:
		auditStore = audit.NewMemoryStore(cfg.Audit.MaxMemoryEntries)
	}
	auditLog := audit.NewLogger(auditStore, cfg.Audit.LogDecisionsToLog)

	prioritizer := engine.New(kv, dedupChecker, rulesEngine, freqChecker, aiScorer, auditLog)

	// === WebSocket hub + live decision feed ===
	wsHub := ws.NewHub()
	go wsHub.Run()
	decisionSubscriber := ws.NewDecisionSubscriber(wsHub)

	// === Authentication ===
	authMode, err := auth.ParseAuthMode(cfg.Security.AuthMode)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid AUTH_MODE")
	}

	var jwtManager *auth.JWTManager
	if authMode == auth.AuthModeJWT {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
	}

	var basicAuthManager *auth.BasicAuthManager
	if authMode == auth.AuthModeBasic {
		basicAuthManager, err = auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
		}
	}

	authMiddleware := auth.NewMiddleware(
		jwtManager,
		basicAuthManager,
		cfg.Security.AuthMode,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
		cfg.Security.CORSOrigins,
		cfg.Security.TrustedProxies,
		cfg.Security.BasicAuthDefaultRole,
		cfg.Security.AdminUsername,
	)

	// === Authorization: Casbin RBAC over an in-memory role provider,
	// since this service has no user database of its own ===
	enforcerCfg := authz.DefaultEnforcerConfig()
	enforcerCfg.ModelPath = cfg.Security.Casbin.ModelPath
	enforcerCfg.PolicyPath = cfg.Security.Casbin.PolicyPath
	enforcerCfg.DefaultRole = cfg.Security.Casbin.DefaultRole
	enforcerCfg.AutoReload = cfg.Security.Casbin.AutoReload
	enforcerCfg.ReloadInterval = cfg.Security.Casbin.ReloadInterval
	enforcerCfg.CacheEnabled = cfg.Security.Casbin.CacheEnabled
	enforcerCfg.CacheTTL = cfg.Security.Casbin.CacheTTL

	enforcer, err := authz.NewEnforcer(ctx, enforcerCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize Casbin enforcer")
	}
	defer enforcer.Close()

	roleSeed := map[string]string{}
	if cfg.Security.AdminUsername != "" {
		roleSeed[cfg.Security.AdminUsername] = "admin"
	}
	roleProvider := authz.NewMemoryRoleProvider(roleSeed)

	serviceCfg := authz.DefaultServiceConfig()
	authzSvc, err := authz.NewService(enforcer, roleProvider, serviceCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization service")
	}
	defer authzSvc.Close()

	// === HTTP handler and router ===
	handler := api.NewHandler(prioritizer, rulesEngine, auditLog, wsHub, bus, authzSvc, aiScorer, cfg.Security.CORSOrigins)
	chiMW := api.NewChiMiddlewareFromAuth(cfg.Security.CORSOrigins, cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)
	router := api.NewRouter(handler, chiMW)

	authenticatedHandler := authMiddleware.Authenticate(router.Setup().ServeHTTP)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      authenticatedHandler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === Supervisor tree ===
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize supervisor tree")
	}

	tree.AddStateService(newFuncService("kvstore-closer", func(ctx context.Context) error {
		<-ctx.Done()
		return kv.Close()
	}))

	tree.AddPipelineService(newFuncService("decision-bus-subscriber", func(ctx context.Context) error {
		return decisionSubscriber.Run(ctx, bus)
	}))
	if pipelineFlush != nil {
		tree.AddPipelineService(newFuncService("duckdb-audit-flusher", pipelineFlush))
		logging.Info().Msg("DuckDB audit flusher added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === Signal handling ===
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
