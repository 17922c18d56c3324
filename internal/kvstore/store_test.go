// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

package kvstore

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryStoreSetNX(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	ok, err := s.SetNX("k1", []byte("v1"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = s.SetNX("k1", []byte("v2"), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second SetNX on a live key to fail")
	}

	value, exists, err := s.Get("k1")
	if err != nil || !exists {
		t.Fatalf("expected k1 to exist, got exists=%v err=%v", exists, err)
	}
	if string(value) != "v1" {
		t.Errorf("expected original value v1 to be preserved, got %q", value)
	}
}

func TestMemoryStoreSetNXAfterExpiry(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	if ok, _ := s.SetNX("k1", []byte("v1"), 20*time.Millisecond); !ok {
		t.Fatal("expected first SetNX to succeed")
	}

	time.Sleep(40 * time.Millisecond)

	ok, err := s.SetNX("k1", []byte("v2"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected SetNX to succeed once the prior entry expired, got ok=%v err=%v", ok, err)
	}

	value, _, _ := s.Get("k1")
	if string(value) != "v2" {
		t.Errorf("expected v2 after re-write, got %q", value)
	}
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	_, exists, err := s.Get("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected missing key to report absent")
	}
}

func TestMemoryStoreIncrFirstWrite(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	count, err := s.Incr("counter", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected first Incr to return 1, got %d", count)
	}
}

func TestMemoryStoreIncrTTLDoesNotSlide(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	if _, err := s.Incr("counter", 60*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	// Second increment within the window must not extend the expiry set by
	// the first increment.
	if _, err := s.Incr("counter", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(40 * time.Millisecond) // total 70ms, past the original 60ms TTL

	count, err := s.GetCount("counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected counter window to have expired per the first TTL, got count=%d", count)
	}
}

func TestMemoryStoreIncrAccumulates(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	for i := 0; i < 5; i++ {
		if _, err := s.Incr("counter", time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count, err := s.GetCount("counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Errorf("expected count 5, got %d", count)
	}
}

func TestMemoryStoreGetCountAbsent(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	count, err := s.GetCount("never-incremented")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 for an absent counter, got %d", count)
	}
}

func TestMemoryStoreSweeperEvictsExpiredEntries(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	defer s.Close()

	if _, err := s.Incr("counter", 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	s.mu.Lock()
	_, stillPresent := s.entries["counter"]
	s.mu.Unlock()

	if stillPresent {
		t.Error("expected sweeper to have evicted the expired counter entry")
	}
}

func TestMemoryStoreConcurrentIncr(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	const goroutines = 20
	const perGoroutine = 50

	done := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			for j := 0; j < perGoroutine; j++ {
				if _, err := s.Incr("shared", time.Minute); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}

	count, err := s.GetCount("shared")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := int64(goroutines * perGoroutine)
	if count != want {
		t.Errorf("expected count %d after concurrent increments, got %d", want, count)
	}
}

func BenchmarkMemoryStoreIncr(b *testing.B) {
	s := NewMemoryStore(0)
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Incr(fmt.Sprintf("key-%d", i%100), time.Minute); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
