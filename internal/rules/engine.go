// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package rules implements the declarative rules engine: an ordered set
// of priority-ranked rules, each an AND of field conditions, evaluated
// against a NotificationEvent to short-circuit the rest of the pipeline
// with a forced action.
package rules

import (
	"fmt"

	"github.com/northlane-labs/notifyguard/internal/models"
)

// Engine holds the operator-configured ruleset plus the four
// always-present default rules, and evaluates events against it in
// descending-priority order.
type Engine struct {
	heap *priorityHeap
}

// NewEngine builds an Engine seeded with the default ruleset.
func NewEngine() *Engine {
	e := &Engine{heap: newPriorityHeap()}
	for _, r := range DefaultRules() {
		e.heap.Push(r)
	}
	return e
}

// DefaultRules returns the four rules that are always present,
// regardless of operator configuration.
func DefaultRules() []models.Rule {
	return []models.Rule{
		{
			Name:     "always_send_security_alerts",
			Priority: 100,
			Conditions: []models.Condition{
				{Field: "event_type", Op: models.OpEq, Value: models.EventTypeSecurityAlert},
			},
			Action: models.ActionNow,
			Reason: "security alerts are always delivered immediately",
		},
		{
			Name:     "always_send_critical",
			Priority: 99,
			Conditions: []models.Condition{
				{Field: "priority_hint", Op: models.OpEq, Value: string(models.PriorityCritical)},
			},
			Action: models.ActionNow,
			Reason: "critical-priority events are always delivered immediately",
		},
		{
			Name:     "suppress_promos_low_priority",
			Priority: 50,
			Conditions: []models.Condition{
				{Field: "event_type", Op: models.OpEq, Value: models.EventTypePromotion},
				{Field: "priority_hint", Op: models.OpIn, Value: []any{string(models.PriorityLow), nil}},
			},
			Action: models.ActionNever,
			Reason: "low-priority promotions are suppressed",
		},
		{
			Name:     "defer_updates_to_digest",
			Priority: 40,
			Conditions: []models.Condition{
				{Field: "event_type", Op: models.OpEq, Value: models.EventTypeUpdate},
			},
			Action: models.ActionLater,
			Reason: "updates are deferred to the next digest",
		},
	}
}

// AddRule appends (or replaces, by name) a rule and re-sorts.
func (e *Engine) AddRule(rule models.Rule) {
	e.heap.Push(rule)
}

// RemoveRule deletes a rule by name. Returns false if it wasn't present.
func (e *Engine) RemoveRule(name string) bool {
	return e.heap.Remove(name)
}

// Rules returns all rules in descending-priority order.
func (e *Engine) Rules() []models.Rule {
	return e.heap.Sorted()
}

// Evaluate walks rules in descending-priority order and returns the first
// one whose conditions all match, or ok=false if none do.
func (e *Engine) Evaluate(event *models.NotificationEvent) (models.RuleMatch, bool) {
	for _, rule := range e.heap.Sorted() {
		if ruleMatches(rule, event) {
			return models.RuleMatch{
				Name:   rule.Name,
				Action: rule.Action,
				Reason: rule.Reason,
			}, true
		}
	}
	return models.RuleMatch{}, false
}

func ruleMatches(rule models.Rule, event *models.NotificationEvent) bool {
	for _, cond := range rule.Conditions {
		if !conditionMatches(cond, event) {
			return false
		}
	}
	return true
}

func conditionMatches(cond models.Condition, event *models.NotificationEvent) bool {
	actual, _ := event.Attribute(cond.Field)

	switch cond.Op {
	case models.OpEq:
		return equalValues(actual, cond.Value)
	case models.OpNeq:
		return !equalValues(actual, cond.Value)
	case models.OpIn:
		list, ok := cond.Value.([]any)
		if !ok {
			return false
		}
		for _, candidate := range list {
			if equalValues(actual, candidate) {
				return true
			}
		}
		return false
	case models.OpContainsAny:
		return containsAnyMatches(actual, cond.Value)
	default:
		return false
	}
}

// equalValues compares a resolved attribute (any, typically string, or
// nil for an absent attribute) against a condition operand using string
// equality, with nil matching only nil.
func equalValues(actual, operand any) bool {
	if actual == nil || operand == nil {
		return actual == nil && operand == nil
	}
	return fmt.Sprint(actual) == fmt.Sprint(operand)
}

// containsAnyMatches builds (or reuses a cached) Aho-Corasick automaton
// over the condition's keyword list and tests the resolved field against
// it in a single pass.
func containsAnyMatches(actual, operand any) bool {
	if actual == nil {
		return false
	}
	text := fmt.Sprint(actual)

	var keywords []string
	switch v := operand.(type) {
	case []any:
		for _, k := range v {
			keywords = append(keywords, fmt.Sprint(k))
		}
	case []string:
		keywords = v
	default:
		return false
	}
	if len(keywords) == 0 {
		return false
	}

	matcher := NewPatternMatcherFromSlice(keywords, nil)
	return matcher.Contains(text)
}
