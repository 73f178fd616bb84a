package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client. Unit tests skip when no local
// Redis is reachable; the tests/integration suite covers the store against
// a containerized instance.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil)
}

func TestRedisStore_PutAndGet(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	entry := testEntry("https://cloudface.ai/")
	if err := store.Put(ctx, StaticGeneration(), entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, StaticGeneration(), entry.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Body) != string(entry.Body) {
		t.Errorf("Body mismatch: got %s, want %s", got.Body, entry.Body)
	}
	if got.StatusCode != entry.StatusCode {
		t.Errorf("StatusCode mismatch: got %d, want %d", got.StatusCode, entry.StatusCode)
	}
	if got.Header.Get("Content-Type") != "text/html" {
		t.Errorf("Header not round-tripped: %v", got.Header)
	}
}

func TestRedisStore_Get_CacheMiss(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if _, err := store.Get(ctx, RuntimeGeneration(), "https://cloudface.ai/missing"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	entry := testEntry("https://cloudface.ai/app")
	if err := store.Put(ctx, RuntimeGeneration(), entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, RuntimeGeneration(), entry.URL); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, RuntimeGeneration(), entry.URL); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
	}
}

func TestRedisStore_GenerationsAndDrop(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	stale := "webedge-static-v2"
	_ = store.Put(ctx, stale, testEntry("https://cloudface.ai/old"))
	_ = store.Put(ctx, StaticGeneration(), testEntry("https://cloudface.ai/"))
	_ = store.Put(ctx, RuntimeGeneration(), testEntry("https://cloudface.ai/blog"))

	names, err := store.Generations(ctx)
	if err != nil {
		t.Fatalf("Generations failed: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("Expected 3 generations, got %d: %v", len(names), names)
	}

	if err := store.DropGeneration(ctx, stale); err != nil {
		t.Fatalf("DropGeneration failed: %v", err)
	}

	names, err = store.Generations(ctx)
	if err != nil {
		t.Fatalf("Generations failed: %v", err)
	}
	for _, name := range names {
		if name == stale {
			t.Errorf("Stale generation %s still listed after drop", stale)
		}
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 generations after drop, got %d: %v", len(names), names)
	}

	if _, err := store.Get(ctx, stale, "https://cloudface.ai/old"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss from dropped generation, got %v", err)
	}
	if _, err := store.Get(ctx, StaticGeneration(), "https://cloudface.ai/"); err != nil {
		t.Errorf("Current generation lost entry: %v", err)
	}
}
