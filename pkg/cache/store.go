package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested URL was not found in the generation
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the minimal key-value contract the fetch handling logic is
// written against. Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the snapshot for url from the named generation.
	// Returns ErrCacheMiss if no snapshot exists.
	Get(ctx context.Context, generation, url string) (*Entry, error)

	// Put stores a snapshot in the named generation, overwriting any
	// previous snapshot for the same URL.
	Put(ctx context.Context, generation string, entry *Entry) error

	// Delete removes the snapshot for url from the named generation.
	Delete(ctx context.Context, generation, url string) error

	// Generations lists the names of every generation holding entries.
	Generations(ctx context.Context) ([]string, error)

	// DropGeneration removes a generation and all of its entries.
	DropGeneration(ctx context.Context, name string) error
}
