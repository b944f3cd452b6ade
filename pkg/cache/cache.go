// Package cache stores rendered artifacts between runs.
//
// Rendering is deterministic: the same seed, configuration and options
// always produce the same bytes, so artifacts can be cached indefinitely.
// Keys are built by a [Keyer] from a hash of the seed and every option that
// affects the output.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash([]byte(seed)), opts)
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the lifetime of cached artifacts. Zero means they never
// expire; only a version change or `cache clear` invalidates them.
const TTLArtifact time.Duration = 0

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
