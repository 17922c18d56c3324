// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package rules

import "testing"

func TestAhoCorasickBasicOperations(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("he", nil)
	ac.AddPattern("she", nil)
	ac.AddPattern("his", nil)
	ac.AddPattern("hers", nil)
	ac.Build()

	matches := ac.Search("ushers")
	if len(matches) < 3 {
		t.Fatalf("expected at least 3 matches, got %d", len(matches))
	}

	var foundShe, foundHe, foundHers bool
	for _, m := range matches {
		switch m.Pattern {
		case "she":
			foundShe = true
		case "he":
			foundHe = true
		case "hers":
			foundHers = true
		}
	}
	if !foundShe || !foundHe || !foundHers {
		t.Errorf("expected she/he/hers all to match, got foundShe=%v foundHe=%v foundHers=%v", foundShe, foundHe, foundHers)
	}
}

func TestAhoCorasickCaseInsensitiveByDefault(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("win a prize", nil)
	ac.Build()

	if !ac.Contains("Congratulations, you WIN A PRIZE today!") {
		t.Error("expected case-insensitive match")
	}
}

func TestAhoCorasickNoMatch(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("act now", nil)
	ac.Build()

	if ac.Contains("your package has shipped") {
		t.Error("expected no match for unrelated text")
	}
}

func TestAhoCorasickEmptyPatternsNeverMatch(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build()

	if ac.Contains("anything at all") {
		t.Error("expected an automaton with no patterns to never match")
	}
}

func TestPatternMatcherFromSlice(t *testing.T) {
	pm := NewPatternMatcherFromSlice([]string{"win a prize", "act now", "limited time"}, "promo")

	if !pm.Contains("act now before it's too late") {
		t.Error("expected keyword match")
	}
	if pm.Contains("your order has shipped") {
		t.Error("expected no match for unrelated text")
	}
}
