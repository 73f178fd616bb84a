// Package cache provides the generation-versioned response cache backing
// the offline web shell.
//
// Responses are stored as opaque snapshots keyed by absolute request URL
// and grouped into named generations. Exactly one static generation (the
// precached shell assets) and one runtime generation (responses picked up
// while browsing) are live at a time; bumping the version token retires
// every entry of the previous generation atomically on activation.
//
// # Basic Usage
//
//	// Redis-backed store
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	store := cache.NewRedisStore(redisClient)
//
//	// Store a response snapshot
//	entry, err := cache.ResponseToEntry(resp, req.URL.String())
//	if err != nil {
//		return err
//	}
//	if err := store.Put(ctx, cache.RuntimeGeneration(), entry); err != nil {
//		return err
//	}
//
//	// Serve from cache
//	entry, err = store.Get(ctx, cache.RuntimeGeneration(), req.URL.String())
//	if err == cache.ErrCacheMiss {
//		// fall through to network
//	}
//
// # Generation Lifecycle
//
//	for _, name := range generations {
//		if !cache.IsCurrent(name) {
//			store.DropGeneration(ctx, name)
//		}
//	}
//
// # Metrics
//
// The store implementations export Prometheus metrics:
//
//   - webedge_cache_hits_total{generation} - Cache hits
//   - webedge_cache_misses_total - Cache misses
//   - webedge_cache_errors_total{operation} - Store operation errors
//   - webedge_cache_generations_dropped_total - Superseded generations purged
package cache
