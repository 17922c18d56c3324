// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package frequency implements the two independent fatigue caps: a
// per-event-type hourly cap and a per-channel daily cap. Both caps
// increment on every call regardless of what the rest of the pipeline
// ultimately decides, so a rule-suppressed event still consumes budget
// while a dedup-suppressed one (which never reaches here) does not.
package frequency

import (
	"fmt"
	"time"

	"github.com/northlane-labs/notifyguard/internal/kvstore"
	"github.com/northlane-labs/notifyguard/internal/models"
)

const (
	hourlyWindow = time.Hour
	dailyWindow  = 24 * time.Hour
)

var typeCaps = map[string]int64{
	models.EventTypePromotion:   2,
	models.EventTypeUpdate:      5,
	models.EventTypeReminder:    3,
	models.EventTypeMessage:     20,
	models.EventTypeSystemEvent: 10,
	models.EventTypeAlert:       10,
}

const defaultTypeCap int64 = 8

var channelCaps = map[models.Channel]int64{
	models.ChannelPush:  20,
	models.ChannelSMS:   5,
	models.ChannelEmail: 10,
	models.ChannelInApp: 50,
}

const defaultChannelCap int64 = 20

// Checker enforces the hourly per-type cap and the daily per-channel cap
// against a shared KV store.
type Checker struct {
	store kvstore.Store
	now   func() time.Time
}

// New builds a Checker backed by store.
func New(store kvstore.Store) *Checker {
	return &Checker{store: store, now: time.Now}
}

// CheckType increments the per-type hourly counter for event_type and
// returns a non-empty reason if the new count exceeds the type's cap.
func (c *Checker) CheckType(userID, eventType string) (reason string, err error) {
	cap := typeCaps[eventType]
	if cap == 0 {
		cap = defaultTypeCap
	}

	key := typeKey(userID, eventType)
	count, err := c.store.Incr(key, hourlyWindow)
	if err != nil {
		return "", err
	}
	if count > cap {
		return fmt.Sprintf("frequency cap exceeded: %d/%d for %s in the past hour", count, cap, eventType), nil
	}
	return "", nil
}

// CheckChannel increments the per-channel daily counter and returns a
// non-empty reason if the new count exceeds the channel's cap.
func (c *Checker) CheckChannel(userID string, channel models.Channel) (reason string, err error) {
	cap := channelCaps[channel]
	if cap == 0 {
		cap = defaultChannelCap
	}

	key := channelKey(userID, channel, c.now())
	count, err := c.store.Incr(key, dailyWindow)
	if err != nil {
		return "", err
	}
	if count > cap {
		return fmt.Sprintf("daily cap reached: %d/%d for channel %s", count, cap, channel), nil
	}
	return "", nil
}

// RecentCount returns the current live count of the per-type hourly
// counter, used by the scorers' recency penalty without incrementing it.
func (c *Checker) RecentCount(userID, eventType string) (int64, error) {
	return c.store.GetCount(typeKey(userID, eventType))
}

func typeKey(userID, eventType string) string {
	return fmt.Sprintf("freq:%s:%s", userID, eventType)
}

func channelKey(userID string, channel models.Channel, now time.Time) string {
	return fmt.Sprintf("daily_cap:%s:%s:%s", userID, channel, now.UTC().Format("2006-01-02"))
}
