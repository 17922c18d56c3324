// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package rules

import (
	"testing"

	"github.com/northlane-labs/notifyguard/internal/models"
)

func TestEngineDefaultRulesOrder(t *testing.T) {
	e := NewEngine()
	rs := e.Rules()
	if len(rs) != 4 {
		t.Fatalf("expected 4 default rules, got %d", len(rs))
	}
	want := []string{"always_send_security_alerts", "always_send_critical", "suppress_promos_low_priority", "defer_updates_to_digest"}
	for i, name := range want {
		if rs[i].Name != name {
			t.Errorf("index %d: expected %s, got %s", i, name, rs[i].Name)
		}
	}
}

func TestEngineSecurityAlertAlwaysNow(t *testing.T) {
	e := NewEngine()
	event := &models.NotificationEvent{EventType: models.EventTypeSecurityAlert, PriorityHint: models.PriorityLow}

	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected a rule match")
	}
	if match.Name != "always_send_security_alerts" || match.Action != models.ActionNow {
		t.Errorf("expected always_send_security_alerts/NOW, got %+v", match)
	}
}

func TestEngineCriticalPriorityAlwaysNow(t *testing.T) {
	e := NewEngine()
	event := &models.NotificationEvent{EventType: models.EventTypePromotion, PriorityHint: models.PriorityCritical}

	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected a rule match")
	}
	if match.Name != "always_send_critical" {
		t.Errorf("expected critical priority to take precedence over promo suppression, got %s", match.Name)
	}
}

func TestEngineSuppressLowPriorityPromo(t *testing.T) {
	e := NewEngine()
	event := &models.NotificationEvent{EventType: models.EventTypePromotion, PriorityHint: models.PriorityLow}

	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected a rule match")
	}
	if match.Action != models.ActionNever {
		t.Errorf("expected NEVER for low-priority promotion, got %s", match.Action)
	}
}

func TestEngineSuppressPromoWithAbsentPriorityHint(t *testing.T) {
	e := NewEngine()
	event := &models.NotificationEvent{EventType: models.EventTypePromotion}

	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected the null-matching in clause to catch an absent priority_hint")
	}
	if match.Action != models.ActionNever {
		t.Errorf("expected NEVER, got %s", match.Action)
	}
}

func TestEngineDeferUpdates(t *testing.T) {
	e := NewEngine()
	event := &models.NotificationEvent{EventType: models.EventTypeUpdate, PriorityHint: models.PriorityMedium}

	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected a rule match")
	}
	if match.Action != models.ActionLater {
		t.Errorf("expected LATER, got %s", match.Action)
	}
}

func TestEngineNoMatchFallsThrough(t *testing.T) {
	e := NewEngine()
	event := &models.NotificationEvent{EventType: models.EventTypeMessage, PriorityHint: models.PriorityMedium}

	if _, ok := e.Evaluate(event); ok {
		t.Error("expected no default rule to match a plain message event")
	}
}

func TestEngineAddRuleHigherPriorityWins(t *testing.T) {
	e := NewEngine()
	e.AddRule(models.Rule{
		Name:     "custom_silence_marketing",
		Priority: 200,
		Conditions: []models.Condition{
			{Field: "event_type", Op: models.OpEq, Value: models.EventTypePromotion},
		},
		Action: models.ActionNever,
		Reason: "operator override",
	})

	event := &models.NotificationEvent{EventType: models.EventTypePromotion, PriorityHint: models.PriorityCritical}
	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected a rule match")
	}
	if match.Name != "custom_silence_marketing" {
		t.Errorf("expected the higher-priority custom rule to win over always_send_critical, got %s", match.Name)
	}
}

func TestEngineContainsAnyOp(t *testing.T) {
	e := NewEngine()
	e.AddRule(models.Rule{
		Name:     "flag_scam_language",
		Priority: 60,
		Conditions: []models.Condition{
			{Field: "message", Op: models.OpContainsAny, Value: []any{"win a prize", "act now"}},
		},
		Action: models.ActionNever,
		Reason: "likely spam content",
	})

	event := &models.NotificationEvent{EventType: models.EventTypeMessage, Message: "Act now and win a prize!"}
	match, ok := e.Evaluate(event)
	if !ok {
		t.Fatal("expected contains_any rule to match")
	}
	if match.Name != "flag_scam_language" {
		t.Errorf("expected flag_scam_language, got %s", match.Name)
	}
}

func TestEngineRemoveRule(t *testing.T) {
	e := NewEngine()
	if !e.RemoveRule("defer_updates_to_digest") {
		t.Fatal("expected RemoveRule to report the rule was present")
	}

	event := &models.NotificationEvent{EventType: models.EventTypeUpdate, PriorityHint: models.PriorityMedium}
	if _, ok := e.Evaluate(event); ok {
		t.Error("expected no match after removing the only applicable rule")
	}
}
