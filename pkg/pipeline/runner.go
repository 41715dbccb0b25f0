package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sizemap/pkg/cache"
	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the viewer server use it to avoid duplicating caching
// logic.
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	root, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Root = root
	result.TreeHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Entries = root.Count()
	result.Stats.Leaves = len(root.Leaves())

	r.Logger.Info("loaded tree",
		"entries", result.Stats.Entries,
		"leaves", result.Stats.Leaves,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	frame, layoutHit, err := r.FrameWithCacheInfo(ctx, root, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Frame = frame
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"items", len(frame.Items),
		"address", frame.Address,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, root, frame, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes the input tree and stores its canonical form in the cache so
// it can later be reopened by hash with [Runner.LoadByHash].
func (r *Runner) Load(ctx context.Context, opts Options) (*entry.Entry, string, error) {
	r.applyLogger(&opts)
	root, hash, err := Load(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	if data, err := json.Marshal(root.ToSource()); err == nil {
		r.set(ctx, r.Keyer.TreeKey(hash), data, cache.TTLTree)
	}
	return root, hash, nil
}

// LoadByHash rebuilds a tree previously stored by [Runner.Load].
func (r *Runner) LoadByHash(ctx context.Context, hash string) (*entry.Entry, error) {
	data, hit := r.get(ctx, r.Keyer.TreeKey(hash))
	if !hit {
		return nil, errors.New(errors.ErrCodeNotFound, "tree %s not found", hash)
	}
	var src entry.Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode cached tree %s", hash)
	}
	return entry.Build(&src)
}

// FrameWithCacheInfo computes a frame with caching and returns cache hit
// info. treeHash identifies root in cache keys.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, root *entry.Entry, treeHash string, opts Options) (Frame, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return Frame{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit := r.get(ctx, cacheKey); hit {
			var cached Frame
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	frame, err := ComputeFrame(ctx, root, opts)
	if err != nil {
		return Frame{}, false, err
	}

	if data, err := json.Marshal(frame); err == nil {
		r.set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return frame, false, nil
}

// Frame is a convenience wrapper that calls FrameWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Frame(ctx context.Context, root *entry.Entry, treeHash string, opts Options) (Frame, error) {
	f, _, err := r.FrameWithCacheInfo(ctx, root, treeHash, opts)
	return f, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, root *entry.Entry, f Frame, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	frameData, err := json.Marshal(f)
	if err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)

	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit := r.get(ctx, r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format)))
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, root, f, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.set(ctx, r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, root *entry.Entry, f Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, root, f, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
