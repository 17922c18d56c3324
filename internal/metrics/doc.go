// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

/*
Package metrics provides Prometheus metrics collection and export for the
notification prioritization pipeline.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Decision Metrics:
  - decisions_total: Pipeline decisions (counter)
    Labels: action (now, later, never)
  - rule_matches_total: Declarative rule matches (counter)
    Labels: rule
  - safety_net_overrides_total: Urgent events forced back to NOW (counter)

Dedup and Frequency Metrics:
  - dedup_hits_total: Events suppressed as duplicates (counter)
    Labels: layer (explicit, fingerprint)
  - frequency_cap_trips_total: Fatigue cap trips (counter)
    Labels: cap_type (type, channel)

AI Scorer Metrics:
  - ai_scorer_latency_seconds: Contextual scoring call duration (histogram)
    Labels: outcome (ai, fallback)
  - ai_scorer_fallback_total: Calls that fell back to the deterministic
    scorer (counter)
  - ai_scorer_fallback_ratio: Rolling fallback ratio (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

KV Store Metrics:
  - kvstore_entries: Live entry count (gauge)
  - kvstore_sweep_evictions_total: Entries removed by the TTL sweeper (counter)

WebSocket Metrics:
  - websocket_connections: Active connections (gauge)
  - websocket_messages_sent_total: Messages broadcast (counter)

# Usage Example

	import (
	    "github.com/northlane-labs/notifyguard/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	http.Handle("/metrics", promhttp.Handler())

	metrics.RecordDecision("later", "quiet_hours")
	metrics.RecordDedupHit("fingerprint")
	metrics.RecordScoringCall(12*time.Millisecond, false)

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'notifyguard'
	    static_configs:
	      - targets: ['localhost:3857']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

# Cardinality Management

  - Rule names are a fixed set (internal/rules.DefaultRules)
  - Event endpoints are normalized (chi route patterns, not raw paths)
  - User IDs never appear in metric labels

# Alerting

Example Prometheus alerting rules:

	groups:
	  - name: notifyguard
	    rules:
	      - alert: HighFallbackRatio
	        expr: ai_scorer_fallback_ratio > 0.5
	        for: 5m
	        annotations:
	          summary: "AI scorer fallback ratio above 50%"

	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state > 0
	        for: 2m
	        annotations:
	          summary: "Circuit breaker open for {{ $labels.name }}"

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/engine: Decision pipeline that emits decision/rule metrics
  - internal/breaker: Circuit breaker state transitions
  - internal/scoring: AI scorer latency and fallback accounting
*/
package metrics
