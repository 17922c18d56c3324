// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package scoring

import (
	"testing"
	"time"

	"github.com/northlane-labs/notifyguard/internal/models"
)

func TestDeterministicCriticalPushNow(t *testing.T) {
	event := &models.NotificationEvent{
		PriorityHint: models.PriorityCritical,
		Channel:      models.ChannelPush,
	}
	result := Deterministic(event, 0, false)

	if !result.FallbackMode || result.AIUsed {
		t.Errorf("expected fallback_mode=true, ai_used=false, got %+v", result)
	}
	if ActionForScore(result.Score) != models.ActionNow {
		t.Errorf("expected NOW for a critical push with no penalties, got score %f", result.Score)
	}
}

func TestDeterministicRecencyPenaltyCaps(t *testing.T) {
	event := &models.NotificationEvent{PriorityHint: models.PriorityMedium, Channel: models.ChannelPush}

	// recent_count * 0.08 would exceed 0.25 well before count=10; confirm
	// the penalty is clamped rather than driving the score negative.
	low := Deterministic(event, 100, false)
	high := Deterministic(event, 3, false)
	if low.Score > high.Score {
		t.Errorf("expected a heavily-penalized high recent_count score (%f) not to exceed a lightly-penalized one (%f)", low.Score, high.Score)
	}
	if low.Score < 0 {
		t.Errorf("expected score to stay clamped at 0, got %f", low.Score)
	}
}

func TestDeterministicExpiryBoost(t *testing.T) {
	soon := time.Now().Add(5 * time.Minute)
	event := &models.NotificationEvent{
		PriorityHint: models.PriorityLow,
		Channel:      models.ChannelPush,
		ExpiresAt:    &soon,
	}
	withExpiry := Deterministic(event, 0, false)

	noExpiry := Deterministic(&models.NotificationEvent{
		PriorityHint: models.PriorityLow,
		Channel:      models.ChannelPush,
	}, 0, false)

	if withExpiry.Score <= noExpiry.Score {
		t.Errorf("expected an imminent expiry to boost the score above the no-expiry baseline: %f vs %f", withExpiry.Score, noExpiry.Score)
	}
}

func TestDeterministicQuietHoursPenalty(t *testing.T) {
	event := &models.NotificationEvent{PriorityHint: models.PriorityMedium, Channel: models.ChannelPush}

	quiet := Deterministic(event, 0, true)
	awake := Deterministic(event, 0, false)
	if quiet.Score >= awake.Score {
		t.Errorf("expected quiet hours to lower the score: quiet=%f awake=%f", quiet.Score, awake.Score)
	}
}

func TestDeterministicChannelWeight(t *testing.T) {
	push := &models.NotificationEvent{PriorityHint: models.PriorityMedium, Channel: models.ChannelPush}
	inApp := &models.NotificationEvent{PriorityHint: models.PriorityMedium, Channel: models.ChannelInApp}

	pushResult := Deterministic(push, 0, false)
	inAppResult := Deterministic(inApp, 0, false)
	if inAppResult.Score >= pushResult.Score {
		t.Errorf("expected in_app's 0.5 weight to score lower than push's 1.0 weight: push=%f in_app=%f", pushResult.Score, inAppResult.Score)
	}
}

func TestDeterministicUnknownPriorityUsesDefault(t *testing.T) {
	event := &models.NotificationEvent{PriorityHint: "", Channel: models.ChannelPush}
	result := Deterministic(event, 0, false)
	if result.Score != round3(defaultPriorityScore) {
		t.Errorf("expected default priority score %f, got %f", defaultPriorityScore, result.Score)
	}
}

func TestDeterministicScoreNeverOutOfRange(t *testing.T) {
	soon := time.Now().Add(time.Minute)
	event := &models.NotificationEvent{
		PriorityHint: models.PriorityCritical,
		Channel:      models.ChannelPush,
		ExpiresAt:    &soon,
	}
	result := Deterministic(event, 0, false)
	if result.Score < 0 || result.Score > 1 {
		t.Errorf("expected score clamped to [0,1], got %f", result.Score)
	}
}

func TestActionForScoreThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Action
	}{
		{0.75, models.ActionNow},
		{0.9, models.ActionNow},
		{0.74, models.ActionLater},
		{0.35, models.ActionLater},
		{0.34, models.ActionNever},
		{0, models.ActionNever},
	}
	for _, tc := range cases {
		if got := ActionForScore(tc.score); got != tc.want {
			t.Errorf("score %f: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}
