// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package poster

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// posterKeyPrefix namespaces poster entries in BadgerDB.
const posterKeyPrefix = "poster:"

// Store is a persistent (title, year) -> poster URL cache backed by
// BadgerDB. Entries expire via Badger's native TTL support, so resolved
// artwork survives restarts but stale URLs age out.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// NewStore opens (or creates) the cache at path.
func NewStore(path string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("poster: open cache: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// NewStoreInMemory creates a cache with no disk backing, for tests and
// ephemeral deployments.
func NewStoreInMemory(ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("poster: open in-memory cache: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Get returns the cached URL for a (title, year) key, or "" and false
// when absent or expired.
func (s *Store) Get(title string, year int) (string, bool) {
	var cached string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(title, year))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			cached = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) || err != nil {
		return "", false
	}
	return cached, true
}

// Set stores a resolved URL under the (title, year) key with the
// configured TTL.
func (s *Store) Set(title string, year int, url string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(title, year), []byte(url))
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func cacheKey(title string, year int) []byte {
	return []byte(posterKeyPrefix + title + "|" + strconv.Itoa(year))
}
