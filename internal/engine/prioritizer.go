// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package engine wires the dedup checker, rules engine, frequency checker,
// and scorers into the Prioritizer: the single evaluate(event) -> Decision
// pipeline the rest of the service calls.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northlane-labs/notifyguard/internal/audit"
	"github.com/northlane-labs/notifyguard/internal/dedup"
	"github.com/northlane-labs/notifyguard/internal/frequency"
	"github.com/northlane-labs/notifyguard/internal/kvstore"
	"github.com/northlane-labs/notifyguard/internal/metrics"
	"github.com/northlane-labs/notifyguard/internal/models"
	"github.com/northlane-labs/notifyguard/internal/rules"
	"github.com/northlane-labs/notifyguard/internal/scoring"
)

// fatigueSuppressedTypes are event types that get suppressed outright (NEVER)
// rather than deferred (LATER) once they trip the frequency cap.
var fatigueSuppressedTypes = map[string]bool{
	models.EventTypePromotion:   true,
	models.EventTypeSystemEvent: true,
}

// Prioritizer evaluates inbound NotificationEvents into a Decision,
// recording every decision to its audit log.
type Prioritizer struct {
	kv         kvstore.Store
	dedup      *dedup.Checker
	rules      *rules.Engine
	frequency  *frequency.Checker
	aiScorer   *scoring.AIScorer
	auditLog   audit.Store
	recordFunc func(ctx context.Context, d *models.Decision) error
	now        func() time.Time
}

// New builds a Prioritizer from its component dependencies. auditLog may be
// an *audit.Logger or any audit.Store implementation.
func New(kv kvstore.Store, dedupChecker *dedup.Checker, rulesEngine *rules.Engine, freqChecker *frequency.Checker, aiScorer *scoring.AIScorer, auditLog audit.Store) *Prioritizer {
	return &Prioritizer{
		kv:        kv,
		dedup:     dedupChecker,
		rules:     rulesEngine,
		frequency: freqChecker,
		aiScorer:  aiScorer,
		auditLog:  auditLog,
		now:       time.Now,
	}
}

// Evaluate runs event through the gate pipeline, stopping at the first
// terminal decision, and records the result to the audit log before
// returning it.
func (p *Prioritizer) Evaluate(ctx context.Context, event *models.NotificationEvent) (*models.Decision, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	decision := p.decide(event)
	metrics.RecordDecision(string(decision.Action), decision.RuleMatched)

	if err := p.auditLog.Record(ctx, decision); err != nil {
		return decision, fmt.Errorf("failed to record decision: %w", err)
	}
	return decision, nil
}

func (p *Prioritizer) decide(event *models.NotificationEvent) *models.Decision {
	isUrgent := event.PriorityHint.IsUrgent()

	// Step 1: expiry.
	if event.IsExpired() {
		return p.terminal(event, models.ActionNever, 0, "Event expired before processing", "")
	}

	// Step 2: dedup.
	if reason, err := p.dedup.IsDuplicate(event); err == nil && reason != "" {
		layer := "fingerprint"
		if strings.Contains(reason, "exact duplicate") {
			layer = "explicit"
		}
		metrics.RecordDedupHit(layer)
		return p.terminal(event, models.ActionNever, 0, reason, "dedup_check")
	}

	// Step 3: rules.
	var deferredRuleReason, deferredRuleName string
	if match, ok := p.rules.Evaluate(event); ok {
		switch match.Action {
		case models.ActionNow:
			return p.terminal(event, models.ActionNow, 1.0, match.Reason, match.Name)
		case models.ActionNever:
			return p.terminal(event, models.ActionNever, 0.0, match.Reason, match.Name)
		case models.ActionLater:
			deferredRuleReason = match.Reason
			deferredRuleName = match.Name
		}
	}

	// Step 4: frequency/fatigue.
	freqReason, _ := p.frequency.CheckType(event.UserID, event.EventType)
	dailyReason, _ := p.frequency.CheckChannel(event.UserID, event.Channel)

	if freqReason != "" && !isUrgent {
		metrics.RecordFrequencyCapTrip("type")
		if fatigueSuppressedTypes[event.EventType] {
			return p.terminal(event, models.ActionNever, 0.1, freqReason, "frequency_cap")
		}
		return p.terminal(event, models.ActionLater, 0.3, freqReason+" — batched to digest", "frequency_cap")
	}
	if dailyReason != "" && !isUrgent {
		metrics.RecordFrequencyCapTrip("channel")
		return p.terminal(event, models.ActionLater, 0.3, dailyReason, "daily_cap")
	}

	// Step 5: scoring.
	recentCount, _ := p.kv.GetCount(fmt.Sprintf("freq:%s:%s", event.UserID, event.EventType))
	result := p.aiScorer.Score(event, recentCount, event.QuietHours())

	action := scoring.ActionForScore(result.Score)
	score := result.Score
	reason := result.Reason
	ruleMatched := ""

	// Step 6: rule/score merge.
	if deferredRuleReason != "" && action == models.ActionNow && !isUrgent {
		action = models.ActionLater
		score = 0.3
		reason = fmt.Sprintf("%s (overrides AI NOW suggestion)", deferredRuleReason)
		ruleMatched = deferredRuleName
	} else if deferredRuleReason != "" && ruleMatched == "" {
		ruleMatched = deferredRuleName
	}

	// Step 7: safety net.
	if action == models.ActionNever && isUrgent {
		reason = fmt.Sprintf("[SAFETY NET] High-priority event cannot be suppressed. Original: %s", reason)
		action = models.ActionNow
		score = 0.9
		metrics.RecordSafetyNetOverride()
	}

	return &models.Decision{
		EventID:      event.ID,
		UserID:       event.UserID,
		Action:       action,
		Score:        score,
		Reason:       reason,
		RuleMatched:  ruleMatched,
		AIUsed:       result.AIUsed,
		FallbackMode: result.FallbackMode,
		DecidedAt:    p.now(),
	}
}

func (p *Prioritizer) terminal(event *models.NotificationEvent, action models.Action, score float64, reason, ruleMatched string) *models.Decision {
	return &models.Decision{
		EventID:     event.ID,
		UserID:      event.UserID,
		Action:      action,
		Score:       score,
		Reason:      reason,
		RuleMatched: ruleMatched,
		DecidedAt:   p.now(),
	}
}
