// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

// Package dedup implements the pipeline's two-layer deduplication gate:
// an explicit dedupe_key check and, failing that, a content-fingerprint
// check, both backed by the shared KV store's SetNX semantics. A Bloom
// filter pre-filters the fingerprint layer so that the common case — a
// fingerprint never seen before — never touches the KV store at all.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/northlane-labs/notifyguard/internal/kvstore"
	"github.com/northlane-labs/notifyguard/internal/models"
)

const (
	explicitTTL    = 86400 * time.Second
	fingerprintTTL = 3600 * time.Second
)

// Checker evaluates the dedup gate described in spec.md §4.2.
type Checker struct {
	store kvstore.Store
	bloom *BloomFilter
}

// New builds a Checker over store, sized for roughly expectedFingerprints
// distinct fingerprints per sweep window.
func New(store kvstore.Store, expectedFingerprints int) *Checker {
	return &Checker{
		store: store,
		bloom: NewBloomFilter(expectedFingerprints, 0.01),
	}
}

// IsDuplicate evaluates both dedup layers in order and returns a non-empty
// reason the moment either layer reports a live duplicate. Whenever a
// layer's SetNX call succeeds (nothing was marked as a duplicate) it still
// registers the event for future lookups — this is the persist side effect
// spec.md §4.2 requires regardless of the ultimate verdict.
func (c *Checker) IsDuplicate(event *models.NotificationEvent) (reason string, err error) {
	if event.DedupeKey != "" {
		key := fmt.Sprintf("dedup:%s:%s", event.UserID, event.DedupeKey)
		ok, err := c.store.SetNX(key, []byte{1}, explicitTTL)
		if err != nil {
			return "", fmt.Errorf("dedup explicit check: %w", err)
		}
		if !ok {
			return "exact duplicate (dedupe_key)", nil
		}
	}

	fp := fingerprint(event)
	bloomKey := event.UserID + ":" + fp

	// A negative is authoritative and skips the KV round-trip; a positive
	// still falls through to SetNX since Bloom filters can false-positive.
	if !c.bloom.Test(bloomKey) {
		c.bloom.Add(bloomKey)
		if _, err := c.store.SetNX(fingerprintKey(event.UserID, fp), []byte{1}, fingerprintTTL); err != nil {
			return "", fmt.Errorf("dedup fingerprint register: %w", err)
		}
		return "", nil
	}

	ok, err := c.store.SetNX(fingerprintKey(event.UserID, fp), []byte{1}, fingerprintTTL)
	if err != nil {
		return "", fmt.Errorf("dedup fingerprint check: %w", err)
	}
	if !ok {
		return "near-duplicate (content fingerprint)", nil
	}

	return "", nil
}

func fingerprintKey(userID, fp string) string {
	return fmt.Sprintf("fingerprint:%s:%s", userID, fp)
}

// fingerprint computes the content fingerprint per spec.md §4.2: lowercase,
// whitespace-trimmed, non-alphanumeric/non-whitespace characters stripped,
// SHA-256 hashed, truncated to the first 16 hex characters.
func fingerprint(event *models.NotificationEvent) string {
	raw := event.EventType + ":" + event.Title + ":" + event.Message
	normalized := normalize(raw)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '\t' || r == '\n' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
