// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

/*
Package main is the entry point for the notification prioritization
service.

notifyguard sits in front of a notification pipeline and decides, for
every inbound NotificationEvent, whether to dispatch it NOW, defer it
to LATER, or suppress it entirely (NEVER) — based on deduplication,
declarative rules, per-user frequency capping, and a contextual scorer
protected by a circuit breaker.

# Application Architecture

The server initializes components in the following order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. KV store: shared dedup/frequency/breaker state (in-memory, or
    Badger with -tags badgerkv)
 4. Engine: dedup checker, rules engine, frequency checker, AI scorer,
    audit log, composed into the Prioritizer
 5. Decision event bus and WebSocket hub: live decision stream
 6. Authentication and authorization: JWT/Basic/none, Casbin RBAC
 7. HTTP API: Chi router behind the supervisor tree
 8. Supervisor tree: suture v4 process supervision across state,
    pipeline, and API layers

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=3857                 # HTTP server port
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console

	# Authentication (choose one mode)
	AUTH_MODE=jwt                  # none, jwt, basic, multi
	JWT_SECRET=<32+ chars>         # Required for JWT mode
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<password>

	# Engine tunables
	ENGINE_DEDUP_EXPECTED_FINGERPRINTS=100000
	ENGINE_FREQUENCY_MAX_PER_USER=10
	ENGINE_FREQUENCY_QUIET_HOURS_START=22
	ENGINE_FREQUENCY_QUIET_HOURS_END=7
	SCORING_ENABLED=false

	# Audit log
	AUDIT_BACKEND=memory            # memory or duckdb

See internal/config for the complete list.

# Build Tags

Optional build tags enable durable backends in place of the in-memory
defaults:

	go build -tags duckdb ./cmd/server    # Durable audit log (DuckDB)
	go build -tags badgerkv ./cmd/server  # Durable KV store (BadgerDB)

Build tags affect neither the supervisor tree's shape nor the API
surface, only which Store implementation backs the audit log and KV
store.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests to finish (Server.ShutdownTimeout)
 3. Drains the decision event bus and closes the KV store
 4. Reports any services that failed to stop within their timeout

# Usage Examples

Development (no auth):

	export AUTH_MODE=none
	go run ./cmd/server

Production (JWT):

	export AUTH_MODE=jwt
	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_USERNAME=admin
	export ADMIN_PASSWORD=secure-password
	./notifyguard

# Port 3857

The default port 3857 is carried over from the teacher's EPSG:3857
convention. It carries no geographic meaning here and can be freely
reconfigured via HTTP_PORT.

# See Also

  - internal/config: Configuration management
  - internal/engine: Prioritizer pipeline (dedup, rules, frequency, scoring)
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
*/
package main
