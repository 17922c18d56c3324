// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package scoring implements the two ScoreResult producers the
// prioritizer chooses between: a pure deterministic scorer used as the
// fallback, and a contextual AI scorer that delegates to it whenever the
// breaker is open or the backend is unavailable.
package scoring

import (
	"math"
	"time"

	"github.com/northlane-labs/notifyguard/internal/models"
)

var priorityScores = map[models.PriorityHint]float64{
	models.PriorityCritical: 0.95,
	models.PriorityHigh:     0.78,
	models.PriorityMedium:   0.52,
	models.PriorityLow:      0.22,
}

const defaultPriorityScore = 0.40

var channelWeights = map[models.Channel]float64{
	models.ChannelPush:  1.0,
	models.ChannelSMS:   0.9,
	models.ChannelEmail: 0.7,
	models.ChannelInApp: 0.5,
}

const defaultChannelWeight = 0.7

const (
	nowThreshold   = 0.75
	laterThreshold = 0.35
)

// Deterministic computes the fallback score for event. recentCount is the
// live hourly per-type counter; isQuietHours comes from the event's own
// metadata flag.
func Deterministic(event *models.NotificationEvent, recentCount int64, isQuietHours bool) models.ScoreResult {
	base, ok := priorityScores[event.PriorityHint]
	if !ok {
		base = defaultPriorityScore
	}

	recencyPenalty := math.Min(float64(recentCount)*0.08, 0.25)
	base -= recencyPenalty

	if event.ExpiresAt != nil {
		minutesLeft := time.Until(*event.ExpiresAt).Minutes()
		switch {
		case minutesLeft < 10:
			base += 0.30
		case minutesLeft < 60:
			base += 0.10
		}
	}

	if isQuietHours {
		base -= 0.20
	}

	weight, ok := channelWeights[event.Channel]
	if !ok {
		weight = defaultChannelWeight
	}
	base *= weight

	score := round3(clamp01(base))

	return models.ScoreResult{
		Score:        score,
		Reason:       "deterministic score based on priority, recency, expiry, quiet hours, and channel",
		AIUsed:       false,
		FallbackMode: true,
	}
}

// ActionForScore maps a final score to its dispatch action using the
// thresholds shared by both scorers.
func ActionForScore(score float64) models.Action {
	switch {
	case score >= nowThreshold:
		return models.ActionNow
	case score >= laterThreshold:
		return models.ActionLater
	default:
		return models.ActionNever
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
