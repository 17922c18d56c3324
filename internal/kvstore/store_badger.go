// NotifyGuard - Notification Prioritization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/northlane-labs/notifyguard

//go:build badgerkv

package kvstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store on top of BadgerDB, giving the KV
// namespaces durability across process restarts. Values and counters
// share the same keyspace; counters are stored as big-endian int64s.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if absent) a BadgerDB instance at dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// SetNX implements Store.
func (s *BadgerStore) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	var wrote bool
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return nil // live entry already present
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		if err := txn.SetEntry(entry); err != nil {
			return err
		}
		wrote = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("kvstore setnx %s: %w", key, err)
	}
	return wrote, nil
}

// Get implements Store.
func (s *BadgerStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("kvstore get %s: %w", key, err)
	}
	return value, value != nil, nil
}

// Incr implements Store. TTL is fixed at the first increment of a window:
// the existing entry's expiry is read back from Badger and reapplied so
// that later increments never extend the window.
func (s *BadgerStore) Incr(key string, ttl time.Duration) (int64, error) {
	var result int64
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			result = 1
			entry := badger.NewEntry([]byte(key), encodeCount(1)).WithTTL(ttl)
			return txn.SetEntry(entry)
		}
		if err != nil {
			return err
		}

		var count int64
		if err := item.Value(func(val []byte) error {
			count = decodeCount(val)
			return nil
		}); err != nil {
			return err
		}

		remaining := time.Until(time.Unix(int64(item.ExpiresAt()), 0))
		if remaining <= 0 {
			remaining = ttl
		}

		count++
		result = count
		entry := badger.NewEntry([]byte(key), encodeCount(count)).WithTTL(remaining)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return 0, fmt.Errorf("kvstore incr %s: %w", key, err)
	}
	return result, nil
}

// GetCount implements Store.
func (s *BadgerStore) GetCount(key string) (int64, error) {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return 0, err
	}
	return decodeCount(value), nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func encodeCount(n int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

func decodeCount(buf []byte) int64 {
	if len(buf) < 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(buf))
}
