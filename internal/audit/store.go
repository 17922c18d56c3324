// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package audit

import (
	"context"
	"math"
	"sync"

	"github.com/northlane-labs/notifyguard/internal/models"
)

// MemoryStore implements Store using an in-memory slice. Suitable for
// development and as the zero-configuration default; data is lost on
// restart. Durable retention uses the DuckDB-backed store (build tag
// duckdb).
type MemoryStore struct {
	mu        sync.RWMutex
	decisions []models.Decision
	maxLen    int
}

// NewMemoryStore creates an in-memory store that retains at most maxLen
// decisions, evicting the oldest 10% once full. maxLen <= 0 defaults to
// 100000.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &MemoryStore{
		decisions: make([]models.Decision, 0, maxLen),
		maxLen:    maxLen,
	}
}

// Record appends decision, evicting the oldest entries if the store is
// at capacity.
func (s *MemoryStore) Record(ctx context.Context, decision *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.decisions) >= s.maxLen {
		evict := s.maxLen / 10
		if evict == 0 {
			evict = 1
		}
		s.decisions = s.decisions[evict:]
	}
	s.decisions = append(s.decisions, *decision)
	return nil
}

// GetUserHistory returns the last limit decisions for userID (optionally
// filtered by action), preserving insertion order.
func (s *MemoryStore) GetUserHistory(ctx context.Context, userID string, action models.Action, limit int) ([]models.Decision, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Decision
	for i := range s.decisions {
		d := s.decisions[i]
		if d.UserID != userID {
			continue
		}
		if action != "" && d.Action != action {
			continue
		}
		matched = append(matched, d)
	}

	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// GetAll returns a defensive copy of every recorded decision.
func (s *MemoryStore) GetAll(ctx context.Context) ([]models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Decision, len(s.decisions))
	copy(out, s.decisions)
	return out, nil
}

// Stats computes aggregate counts and rates across the whole log.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	stats.Total = int64(len(s.decisions))

	for i := range s.decisions {
		switch s.decisions[i].Action {
		case models.ActionNow:
			stats.NowCount++
		case models.ActionLater:
			stats.LaterCount++
		case models.ActionNever:
			stats.NeverCount++
		}
	}

	denominator := float64(stats.Total)
	if denominator < 1 {
		denominator = 1
	}
	stats.SuppressionRate = round1(100 * float64(stats.NeverCount) / denominator)
	stats.DeferredRate = round1(100 * float64(stats.LaterCount) / denominator)

	return stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
