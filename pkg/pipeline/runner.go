package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringavatar/pkg/cache"
	"github.com/matzehuels/ringavatar/pkg/observability"
)

// Runner encapsulates rendering with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute renders every requested format, serving what it can from the cache.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Seed, opts.Formats)
	defer func() { hooks.OnRenderComplete(ctx, opts.Seed, opts.Formats, time.Since(start), err) }()

	artifacts, hits, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	result = &Result{
		Artifacts: artifacts,
		Stats: Stats{
			Digits:     len(opts.Seed),
			Distinct:   distinct(opts.Seed),
			RenderTime: time.Since(start),
		},
		CacheInfo: CacheInfo{
			Hits:   hits,
			AllHit: len(hits) == len(opts.Formats),
		},
	}

	r.Logger.Info("rendered outputs",
		"type", opts.VizType,
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo returns all requested artifacts and the formats that
// were served from the cache. Missing formats are rendered together and
// stored afterwards.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (map[string][]byte, []string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	seedHash := cache.Hash([]byte(opts.Seed))
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits, misses []string
	for _, format := range opts.Formats {
		if _, dup := artifacts[format]; dup || contains(misses, format) {
			continue
		}
		key := r.Keyer.ArtifactKey(seedHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				hits = append(hits, format)
				hooks.OnCacheHit(ctx, format)
				continue
			} else if err != nil {
				r.Logger.Debug("cache read failed", "format", format, "error", err)
			}
		}
		hooks.OnCacheMiss(ctx, format)
		misses = append(misses, format)
	}

	if len(misses) == 0 {
		return artifacts, hits, nil
	}

	rendered, err := renderFormats(ctx, opts, misses)
	if err != nil {
		return nil, nil, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(seedHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}

	return artifacts, hits, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
