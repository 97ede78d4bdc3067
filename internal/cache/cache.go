// Package cache provides a small on-disk TTL cache backed by Badger.
// It is used to memoize resolved stream URLs, which stay valid upstream
// for a limited window, so repeated plays of the same source don't pay
// the resolver cost every time.
package cache

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrMiss is returned by Get when the key is absent or its TTL elapsed.
var ErrMiss = errors.New("cache: miss")

// Cache stores JSON-encoded values with a per-entry time-to-live.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open creates or opens a cache at path. Entries expire after ttl.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	// Cached entries are cheap to recompute, so skip the fsync per write.
	opts.SyncWrites = false
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if logger != nil {
		logger.Debug("stream cache opened", "path", path, "ttl", ttl)
	}

	return &Cache{db: db, ttl: ttl, logger: logger}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get unmarshals the cached value for key into dest.
// Returns ErrMiss when the key is absent or expired.
func (c *Cache) Get(key string, dest any) error {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrMiss
	}
	return err
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
