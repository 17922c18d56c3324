// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build !badgerkv

package kvstore

import (
	"errors"
	"time"
)

// ErrBadgerNotBuilt is returned by OpenBadgerStore in builds without the
// badgerkv tag. Use NewMemoryStore, or rebuild with -tags badgerkv for a
// durable backend.
var ErrBadgerNotBuilt = errors.New("kvstore: built without badgerkv tag")

// BadgerStore stub for non-badgerkv builds. It satisfies the Store
// interface shape at compile time but is never instantiated at runtime.
type BadgerStore struct{}

// OpenBadgerStore always fails in non-badgerkv builds.
func OpenBadgerStore(_ string) (*BadgerStore, error) {
	return nil, ErrBadgerNotBuilt
}

func (s *BadgerStore) SetNX(_ string, _ []byte, _ time.Duration) (bool, error) {
	return false, ErrBadgerNotBuilt
}
func (s *BadgerStore) Get(_ string) ([]byte, bool, error) { return nil, false, ErrBadgerNotBuilt }
func (s *BadgerStore) Incr(_ string, _ time.Duration) (int64, error) {
	return 0, ErrBadgerNotBuilt
}
func (s *BadgerStore) GetCount(_ string) (int64, error) { return 0, ErrBadgerNotBuilt }
func (s *BadgerStore) Close() error                     { return nil }
