// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the notification prioritization pipeline:
// - API endpoint latency and throughput
// - Decision outcomes and rule matches
// - Dedup, frequency, and scoring instrumentation
// - Circuit breaker state
// - KV store occupancy

var (
	// API Endpoint Metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Decision Metrics

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decisions_total",
			Help: "Total number of notification prioritization decisions",
		},
		[]string{"action"}, // "now", "later", "never"
	)

	RuleMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_matches_total",
			Help: "Total number of rule matches by rule name",
		},
		[]string{"rule"},
	)

	SafetyNetOverridesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safety_net_overrides_total",
			Help: "Total number of urgent events forced to NOW after a NEVER verdict",
		},
	)

	// Dedup Metrics

	DedupHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_hits_total",
			Help: "Total number of events suppressed as duplicates",
		},
		[]string{"layer"}, // "explicit", "fingerprint"
	)

	// Frequency Metrics

	FrequencyCapTripsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frequency_cap_trips_total",
			Help: "Total number of frequency/fatigue cap trips",
		},
		[]string{"cap_type"}, // "type", "channel"
	)

	// AI Scorer Metrics

	AIScorerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_scorer_latency_seconds",
			Help:    "Duration of contextual scoring calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"}, // "ai", "fallback"
	)

	AIScorerFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_scorer_fallback_total",
			Help: "Total number of scoring calls that fell back to the deterministic scorer",
		},
	)

	AIScorerCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_scorer_calls_total",
			Help: "Total number of scoring calls (AI path attempted or fallback)",
		},
	)

	AIScorerFallbackRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ai_scorer_fallback_ratio",
			Help: "Rolling ratio of scoring calls served by the fallback path",
		},
	)

	// Circuit Breaker Metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// KV Store Metrics

	KVStoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kvstore_entries",
			Help: "Current number of live entries in the KV store",
		},
	)

	KVStoreSweepEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kvstore_sweep_evictions_total",
			Help: "Total number of entries removed by the KV store's TTL sweeper",
		},
	)

	// WebSocket Metrics

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// System Metrics

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection for endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordDecision records a prioritization decision outcome and, when the
// decision matched a declarative rule, the rule that matched.
func RecordDecision(action, ruleMatched string) {
	DecisionsTotal.WithLabelValues(action).Inc()
	if ruleMatched != "" {
		RuleMatchesTotal.WithLabelValues(ruleMatched).Inc()
	}
}

// RecordSafetyNetOverride records the pipeline's safety net forcing a
// suppressed urgent event back to NOW.
func RecordSafetyNetOverride() {
	SafetyNetOverridesTotal.Inc()
}

// RecordDedupHit records an event suppressed by dedup layer ("explicit"
// or "fingerprint").
func RecordDedupHit(layer string) {
	DedupHitsTotal.WithLabelValues(layer).Inc()
}

// RecordFrequencyCapTrip records a frequency/fatigue cap trip, capType
// being "type" or "channel".
func RecordFrequencyCapTrip(capType string) {
	FrequencyCapTripsTotal.WithLabelValues(capType).Inc()
}

// fallbackCount and aiCount track the rolling totals behind
// AIScorerFallbackRatio; they are updated alongside the counters they
// mirror so the ratio gauge never drifts out of sync.
var (
	fallbackCount uint64
	totalCount    uint64
)

// RecordScoringCall records the latency and outcome of a scoring call and
// refreshes the rolling fallback ratio gauge.
func RecordScoringCall(duration time.Duration, fellBack bool) {
	outcome := "ai"
	if fellBack {
		outcome = "fallback"
		AIScorerFallbackTotal.Inc()
		fallbackCount++
	}
	AIScorerLatency.WithLabelValues(outcome).Observe(duration.Seconds())
	AIScorerCallsTotal.Inc()
	totalCount++

	if totalCount > 0 {
		AIScorerFallbackRatio.Set(float64(fallbackCount) / float64(totalCount))
	}
}

// RecordBreakerTransition records a circuit breaker state transition and
// updates the current-state gauge. State values follow gobreaker's
// ordering: 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name, from, to string, stateValue float64) {
	CircuitBreakerTransitionsTotal.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(stateValue)
}

// UpdateKVStoreEntries sets the current live entry count gauge.
func UpdateKVStoreEntries(count int64) {
	KVStoreEntries.Set(float64(count))
}

// RecordKVStoreSweepEvictions records evictions performed in a single
// sweeper pass.
func RecordKVStoreSweepEvictions(n int) {
	KVStoreSweepEvictions.Add(float64(n))
}

// UpdateWSConnections sets the current WebSocket connection count gauge.
func UpdateWSConnections(count int) {
	WSConnections.Set(float64(count))
}

// RecordWSMessageSent records a WebSocket broadcast.
func RecordWSMessageSent() {
	WSMessagesSent.Inc()
}

// SetAppInfo sets the app_info gauge to 1 for the given version/go_version
// label pair.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// breakerStateValue converts gobreaker's State.String() output to the
// numeric value circuit_breaker_state expects.
func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// BreakerStateValue exposes breakerStateValue for callers outside this
// package (internal/breaker) that need the closed/half-open/open ->
// 0/1/2 mapping used by CircuitBreakerState.
func BreakerStateValue(state string) float64 {
	return breakerStateValue(state)
}
