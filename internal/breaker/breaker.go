// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package breaker wraps the AI scorer's outbound call in a gobreaker
// circuit breaker: five consecutive failures trip it open, and it stays
// open for thirty seconds before probing again with a single half-open
// request.
package breaker

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/northlane-labs/notifyguard/internal/metrics"
	"github.com/northlane-labs/notifyguard/internal/models"
)

// Config controls a Breaker's trip and recovery behavior.
type Config struct {
	Name             string
	FailureThreshold uint32
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
}

// DefaultConfig returns the AI scorer's breaker settings: trip after five
// consecutive failures, stay open for thirty seconds, allow one probe
// request in the half-open state.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		MaxRequests:      1,
		Interval:         0,
		Timeout:          30 * time.Second,
	}
}

// Breaker protects a ScoreResult-returning call behind a gobreaker state
// machine, typed to avoid the interface{} boxing of the raw library API.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[models.ScoreResult]
}

// New builds a Breaker from cfg.
func New(cfg Config) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), metrics.BreakerStateValue(to.String()))
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[models.ScoreResult](settings)}
}

// Execute runs fn through the breaker. When the breaker is open, it
// returns gobreaker.ErrOpenState without calling fn at all.
func (b *Breaker) Execute(fn func() (models.ScoreResult, error)) (models.ScoreResult, error) {
	return b.cb.Execute(fn)
}

// State reports the breaker's current state: "closed", "half-open", or
// "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Counts exposes the breaker's rolling request/failure counters, used by
// the stats endpoint and metrics exporter.
func (b *Breaker) Counts() gobreaker.Counts {
	return b.cb.Counts()
}
