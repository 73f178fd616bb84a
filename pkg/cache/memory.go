package cache

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process Store, one go-cache instance per generation.
// Entries never expire on their own; the generation lifecycle governs
// eviction. Used when no Redis is configured and as the fake in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	generations map[string]*gocache.Cache
}

// NewMemoryStore creates an empty in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		generations: make(map[string]*gocache.Cache),
	}
}

func (s *MemoryStore) generation(name string, create bool) *gocache.Cache {
	s.mu.RLock()
	c, ok := s.generations[name]
	s.mu.RUnlock()
	if ok || !create {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.generations[name]; ok {
		return c
	}
	c = gocache.New(gocache.NoExpiration, 0)
	s.generations[name] = c
	return c
}

// Get retrieves the snapshot for url from the named generation.
func (s *MemoryStore) Get(ctx context.Context, generation, url string) (*Entry, error) {
	c := s.generation(generation, false)
	if c == nil {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}
	v, ok := c.Get(url)
	if !ok {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}
	entry, ok := v.(*Entry)
	if !ok {
		return nil, ErrInvalidEntry
	}
	CacheHits.WithLabelValues(generation).Inc()
	return entry, nil
}

// Put stores a snapshot in the named generation.
func (s *MemoryStore) Put(ctx context.Context, generation string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}
	s.generation(generation, true).Set(entry.URL, entry, gocache.NoExpiration)
	return nil
}

// Delete removes the snapshot for url from the named generation.
func (s *MemoryStore) Delete(ctx context.Context, generation, url string) error {
	if c := s.generation(generation, false); c != nil {
		c.Delete(url)
	}
	return nil
}

// Generations lists the names of every generation holding entries.
func (s *MemoryStore) Generations(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	return names, nil
}

// DropGeneration removes a generation and all of its entries.
func (s *MemoryStore) DropGeneration(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.generations[name]; ok {
		delete(s.generations, name)
		GenerationsDropped.Inc()
	}
	return nil
}
