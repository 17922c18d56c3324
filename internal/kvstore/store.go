// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package kvstore provides the pipeline's shared key-value state: two
// logical namespaces, values (set-if-absent) and counters (integer
// increment), both with per-key TTLs. The dedup checker, frequency
// checker and circuit breaker all read and write through the same Store
// interface so that a durable backend (build tag badgerkv) can replace
// the in-memory default without touching pipeline code.
package kvstore

import (
	"sync"
	"time"

	"github.com/northlane-labs/notifyguard/internal/metrics"
)

// Store is the KV contract every pipeline gate depends on. Expiry is
// lazy: a dead entry is only removed on the access that discovers it,
// though implementations may additionally run a background sweeper.
type Store interface {
	// SetNX writes (value, now+ttl) iff no live entry exists for key.
	// Returns false if a live entry already exists (the "duplicate" case).
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)

	// Get returns the live value for key, or ok=false if absent or expired.
	Get(key string) (value []byte, ok bool, err error)

	// Incr increments key's counter. If no live entry exists it writes
	// (1, now+ttl) and returns 1. Otherwise it writes (old+1,
	// existing_expire_at) — the TTL is set only on the first increment of
	// a window and never slides on subsequent hits.
	Incr(key string, ttl time.Duration) (int64, error)

	// GetCount returns the current live count for key, or 0 if absent.
	GetCount(key string) (int64, error)

	// Close releases any background resources (sweeper goroutines,
	// underlying database handles).
	Close() error
}

type entryKind int

const (
	kindValue entryKind = iota
	kindCounter
)

type entry struct {
	kind      entryKind
	value     []byte
	count     int64
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryStore is the default in-memory Store, backed by a map guarded by
// a single mutex plus an optional periodic sweeper goroutine that evicts
// dead entries proactively.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry

	stopSweep chan struct{}
	sweepOnce sync.Once
}

// NewMemoryStore constructs a MemoryStore. If sweepInterval is positive a
// background goroutine evicts expired entries on that cadence; passing 0
// disables the sweeper and relies purely on lazy (access-time) expiry.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:   make(map[string]entry),
		stopSweep: make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.RecordKVStoreSweepEvictions(evicted)
	}
	metrics.UpdateKVStoreEntries(int64(len(s.entries)))
}

// SetNX implements Store.
func (s *MemoryStore) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !e.expired(now) {
		return false, nil
	}

	s.entries[key] = entry{
		kind:      kindValue,
		value:     value,
		expiresAt: now.Add(ttl),
	}
	return true, nil
}

// Get implements Store.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.expired(now) {
		if ok {
			delete(s.entries, key)
		}
		return nil, false, nil
	}
	return e.value, true, nil
}

// Incr implements Store. TTL is fixed at the first increment of a window
// and does not slide on subsequent hits.
func (s *MemoryStore) Incr(key string, ttl time.Duration) (int64, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.expired(now) {
		e = entry{
			kind:      kindCounter,
			count:     1,
			expiresAt: now.Add(ttl),
		}
		s.entries[key] = e
		return 1, nil
	}

	e.count++
	s.entries[key] = e
	return e.count, nil
}

// GetCount implements Store.
func (s *MemoryStore) GetCount(key string) (int64, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.expired(now) {
		return 0, nil
	}
	return e.count, nil
}

// Close stops the sweeper goroutine, if one was started.
func (s *MemoryStore) Close() error {
	s.sweepOnce.Do(func() { close(s.stopSweep) })
	return nil
}
