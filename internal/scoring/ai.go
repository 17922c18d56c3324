// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/northlane-labs/notifyguard/internal/breaker"
	"github.com/northlane-labs/notifyguard/internal/metrics"
	"github.com/northlane-labs/notifyguard/internal/models"
)

var typeScores = map[string]float64{
	models.EventTypeMessage:       0.70,
	models.EventTypeSecurityAlert: 0.95,
	models.EventTypeAlert:         0.85,
	models.EventTypeReminder:      0.55,
	models.EventTypeUpdate:        0.40,
	models.EventTypePromotion:     0.20,
	models.EventTypeSystemEvent:   0.60,
}

const defaultTypeScore = 0.50

// contextualFunc computes a ScoreResult for an event given its recent
// firing count and quiet-hours flag. The default implementation is a
// simulated contextual model; production wiring can substitute a real
// LLM-backed client with WithScoreFunc as long as it keeps this shape.
type contextualFunc func(event *models.NotificationEvent, recentCount int64, isQuietHours bool) (models.ScoreResult, error)

// AIScorer produces contextual scores, falling back to the deterministic
// scorer whenever the backend is disabled, rate-limited, or tripped by
// the circuit breaker.
type AIScorer struct {
	available bool
	breaker   *breaker.Breaker
	limiter   *rate.Limiter
	score     contextualFunc
}

// NewAIScorer builds an AIScorer. limiter may be nil to disable
// rate limiting.
func NewAIScorer(available bool, b *breaker.Breaker, limiter *rate.Limiter) *AIScorer {
	return &AIScorer{
		available: available,
		breaker:   b,
		limiter:   limiter,
		score:     simulatedContextualScore,
	}
}

// WithScoreFunc overrides the contextual scoring function, e.g. to wire
// in a real model client in place of the simulated one.
func (s *AIScorer) WithScoreFunc(fn contextualFunc) *AIScorer {
	s.score = fn
	return s
}

// BreakerState reports the underlying circuit breaker's current state:
// "closed", "half-open", or "open".
func (s *AIScorer) BreakerState() string {
	return s.breaker.State()
}

// FallbackMode reports whether scoring is currently falling back to the
// deterministic scorer: the AI path is disabled, or its circuit breaker is
// not closed.
func (s *AIScorer) FallbackMode() bool {
	return !s.available || s.breaker.State() != "closed"
}

// Score returns a contextual ScoreResult, or a fallback ScoreResult with
// an annotated reason if the AI path is unavailable, rate-limited, or the
// breaker is open.
func (s *AIScorer) Score(event *models.NotificationEvent, recentCount int64, isQuietHours bool) models.ScoreResult {
	start := time.Now()

	if !s.available {
		return s.fallback(start, event, recentCount, isQuietHours, "AI scorer unavailable")
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return s.fallback(start, event, recentCount, isQuietHours, "AI scorer rate limit exceeded")
	}

	result, err := s.breaker.Execute(func() (models.ScoreResult, error) {
		return s.score(event, recentCount, isQuietHours)
	})
	if err != nil {
		return s.fallback(start, event, recentCount, isQuietHours, err.Error())
	}

	result.AIUsed = true
	result.FallbackMode = false
	metrics.RecordScoringCall(time.Since(start), false)
	return result
}

func (s *AIScorer) fallback(start time.Time, event *models.NotificationEvent, recentCount int64, isQuietHours bool, cause string) models.ScoreResult {
	result := Deterministic(event, recentCount, isQuietHours)
	result.Reason = fmt.Sprintf("[FALLBACK] %s — %s", cause, result.Reason)
	metrics.RecordScoringCall(time.Since(start), true)
	return result
}

// simulatedContextualScore implements the contextual scoring algorithm
// described for the AI scorer. It never returns an error; a real model
// client wired in with WithScoreFunc is expected to return one when the
// call fails so the breaker can record it.
func simulatedContextualScore(event *models.NotificationEvent, recentCount int64, isQuietHours bool) (models.ScoreResult, error) {
	base, ok := typeScores[event.EventType]
	if !ok {
		base = defaultTypeScore
	}

	var factors []string
	factors = append(factors, fmt.Sprintf("event_type=%s(%.2f)", event.EventType, base))

	switch event.PriorityHint {
	case models.PriorityCritical:
		base = math.Max(base, 0.93)
		factors = append(factors, "priority=critical")
	case models.PriorityHigh:
		base = math.Max(base, 0.78)
		factors = append(factors, "priority=high")
	case models.PriorityLow:
		base = math.Min(base, 0.35)
		factors = append(factors, "priority=low")
	}

	if recentCount > 3 {
		penalty := 0.12 * float64(recentCount-3)
		base -= penalty
		factors = append(factors, fmt.Sprintf("recency_penalty=%.2f", penalty))
	}

	if isQuietHours && !event.PriorityHint.IsUrgent() {
		base -= 0.18
		factors = append(factors, "quiet_hours_penalty=0.18")
	}

	score := round3(clamp01(base))

	return models.ScoreResult{
		Score:        score,
		Reason:       "contextual score: " + strings.Join(factors, ", "),
		AIUsed:       true,
		FallbackMode: false,
	}, nil
}
