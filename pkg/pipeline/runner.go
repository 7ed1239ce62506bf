package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the logger and its pool
// of packers - it doesn't store pipeline results. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	packers sync.Pool
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

// Execute runs the complete pack → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, items []layout.Item, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ItemsHash: HashItems(items),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Pack
	packStart := time.Now()
	l, layoutHit, err := r.PackWithCacheInfo(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Layout = l
	result.Stats.ItemCount = len(items)
	result.Stats.Placed = len(l.Blocks)
	result.Stats.Unplaced = len(l.Unplaced)
	result.Stats.PackTime = time.Since(packStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("packed items",
		"items", len(items),
		"placed", len(l.Blocks),
		"unplaced", len(l.Unplaced),
		"rows", l.Rows,
		"duration", result.Stats.PackTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PackWithCacheInfo packs items with caching and returns cache hit info.
//
// Layouts are cached under the hash of the items plus every option that
// affects placement. Passes that report an inconsistency are never cached.
func (r *Runner) PackWithCacheInfo(ctx context.Context, items []layout.Item, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}
	hooks := observability.Pack()

	// Compute cache key
	cacheKey := r.Keyer.LayoutKey(HashItems(items), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := layout.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				cached.Style = opts.Style
				if opts.Strict && len(cached.Unplaced) > 0 {
					return cached, true, unplacedError(cached)
				}
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Pack
	start := time.Now()
	hooks.OnPackStart(ctx, len(items), opts.Columns)
	p := r.getPacker()
	l, res, err := PackLayout(p, items, opts)
	r.packers.Put(p)
	placed, unplaced := 0, 0
	if res != nil {
		placed, unplaced = len(res.Placements), len(res.Unplaced)
	}
	hooks.OnPackComplete(ctx, placed, unplaced, time.Since(start), err)
	if res == nil {
		return layout.Layout{}, false, err
	}

	if len(res.Unplaced) > 0 {
		hooks.OnUnplaced(ctx, res.Unplaced)
		opts.Logger.Warn("items did not fit", "count", len(res.Unplaced), "ids", l.Unplaced, "rows", res.RowBound)
	}
	if res.Diagnostic != nil {
		hooks.OnInconsistency(ctx, res.Diagnostic)
		return l, false, err
	}

	// Cache the result
	if data, merr := layout.Marshal(l); merr == nil {
		if serr := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); serr == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, err // Cache miss
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards the cache hit info.
func (r *Runner) Pack(ctx context.Context, items []layout.Item, opts Options) (layout.Layout, error) {
	l, _, err := r.PackWithCacheInfo(ctx, items, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	hooks := observability.Pack()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// getPacker borrows a packer from the pool.
func (r *Runner) getPacker() *grid.Packer {
	if p, ok := r.packers.Get().(*grid.Packer); ok {
		return p
	}
	return grid.NewPacker(grid.WithLogger(r.Logger))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashItems hashes the JSON encoding of items. Order matters: the same
// items in a different order pack differently.
func HashItems(items []layout.Item) string {
	data, _ := json.Marshal(items)
	return cache.Hash(data)
}
