package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis key layout.
const (
	entryKeyPrefix    = "webedge:cache:entry:"
	indexKeyPrefix    = "webedge:cache:index:"
	generationsSetKey = "webedge:cache:generations"
)

// RedisStore is a Store backed by Redis. Entries are JSON-marshalled under
// a per-generation key namespace; a set per generation indexes the stored
// URLs so a generation can be dropped without scanning the keyspace.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed cache store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
	}
}

func entryKey(generation, url string) string {
	return entryKeyPrefix + generation + ":" + url
}

func indexKey(generation string) string {
	return indexKeyPrefix + generation
}

// Get retrieves the snapshot for url from the named generation.
// Returns ErrCacheMiss if no snapshot exists.
func (s *RedisStore) Get(ctx context.Context, generation, url string) (*Entry, error) {
	data, err := s.redis.Get(ctx, entryKey(generation, url)).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	CacheHits.WithLabelValues(generation).Inc()
	return &entry, nil
}

// Put stores a snapshot in the named generation, overwriting any previous
// snapshot for the same URL.
func (s *RedisStore) Put(ctx context.Context, generation string, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	// Entry, URL index and generation registry are written together so
	// DropGeneration can always find every key it owns.
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, entryKey(generation, entry.URL), data, 0)
	pipe.SAdd(ctx, indexKey(generation), entry.URL)
	pipe.SAdd(ctx, generationsSetKey, generation)
	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("redis put: %w", err)
	}

	CacheSize.WithLabelValues(generation).Add(float64(len(data)))
	return nil
}

// Delete removes the snapshot for url from the named generation.
func (s *RedisStore) Delete(ctx context.Context, generation, url string) error {
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, entryKey(generation, url))
	pipe.SRem(ctx, indexKey(generation), url)
	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Generations lists the names of every generation holding entries.
func (s *RedisStore) Generations(ctx context.Context) ([]string, error) {
	names, err := s.redis.SMembers(ctx, generationsSetKey).Result()
	if err != nil {
		CacheErrors.WithLabelValues("generations").Inc()
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	return names, nil
}

// DropGeneration removes a generation and all of its entries.
func (s *RedisStore) DropGeneration(ctx context.Context, name string) error {
	urls, err := s.redis.SMembers(ctx, indexKey(name)).Result()
	if err != nil {
		CacheErrors.WithLabelValues("drop").Inc()
		return fmt.Errorf("redis smembers: %w", err)
	}

	pipe := s.redis.TxPipeline()
	for _, url := range urls {
		pipe.Del(ctx, entryKey(name, url))
	}
	pipe.Del(ctx, indexKey(name))
	pipe.SRem(ctx, generationsSetKey, name)
	if _, err := pipe.Exec(ctx); err != nil {
		CacheErrors.WithLabelValues("drop").Inc()
		return fmt.Errorf("redis drop generation: %w", err)
	}

	GenerationsDropped.Inc()
	return nil
}
