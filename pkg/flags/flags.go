// Package flags persists small user-scoped string flags across sessions,
// the equivalent of the browser's local storage for the install banner and
// discount popup dismissals.
package flags

import (
	"context"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
)

// Persisted flag keys.
const (
	// InstallDismissed marks the install banner as dismissed for good.
	InstallDismissed = "pwa_install_dismissed"

	// DiscountDismissed marks the discount popup as dismissed for good.
	DiscountDismissed = "cf_discount_popup_dismissed"
)

// Set is the value stored for a raised flag.
const Set = "1"

// Store reads and writes persisted flags. Get returns the empty string for
// a flag that was never set.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// LevelStore is a Store persisted in a local LevelDB database, surviving
// process restarts.
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevelStore opens (or creates) the flag database at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open flag store: %w", err)
	}
	return &LevelStore{db: db}, nil
}

// Get returns the value for key, or "" when the flag was never set.
func (s *LevelStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get flag %s: %w", key, err)
	}
	return string(value), nil
}

// Set stores value under key.
func (s *LevelStore) Set(ctx context.Context, key, value string) error {
	if err := s.db.Put([]byte(key), []byte(value), nil); err != nil {
		return fmt.Errorf("set flag %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *LevelStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process Store for tests and flag-less deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory flag store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key, or "" when the flag was never set.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set stores value under key.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
