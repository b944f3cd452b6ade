package cache

import (
	"context"
	"time"
)

// NullCache backs `render --no-cache` and runners built without a cache:
// every lookup misses and writes are dropped, so each run renders all
// requested formats.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

var _ Cache = (*NullCache)(nil)

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                      { return nil }
func (*NullCache) Close() error                                              { return nil }
