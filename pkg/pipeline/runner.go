package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/cache"
	pkgio "github.com/matzehuels/tideman/pkg/io"
	"github.com/matzehuels/tideman/pkg/observability"
	"github.com/matzehuels/tideman/pkg/tideman"
)

var tracer = otel.Tracer("github.com/matzehuels/tideman/pkg/pipeline")

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeResult   = "result"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the expiry of cache entries. Zero uses
	// [cache.TTLResult] and [cache.TTLArtifact].
	TTL time.Duration
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

// Execute runs the complete tabulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, set ballot.Set, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Tabulate
	tabulateStart := time.Now()
	res, hit, err := r.TabulateWithCacheInfo(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("tabulate: %w", err)
	}
	result.Tabulation = res
	result.Stats.TabulateTime = time.Since(tabulateStart)
	result.Stats.Candidates = len(res.Candidates)
	result.Stats.Groups = len(res.Groups)
	result.Stats.Locked, result.Stats.Skipped = countEdges(res)
	result.CacheInfo.TabulateHit = hit

	r.Logger.Info("tabulated ballots",
		"candidates", result.Stats.Candidates,
		"groups", result.Stats.Groups,
		"winner", res.Label(res.Winner),
		"duration", result.Stats.TabulateTime)

	// Stage 2: Render
	renderStart := time.Now()
	hash, err := resultHash(res)
	if err != nil {
		return nil, err
	}
	result.ResultHash = hash
	artifacts, hit, err := r.renderWithHash(ctx, res, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TabulateWithCacheInfo runs the engine with caching and returns cache hit info.
//
// Results are keyed by the hash of the canonical JSON ballot document, so
// the same election read from TOML, YAML or HCL shares one entry.
func (r *Runner) TabulateWithCacheInfo(ctx context.Context, set ballot.Set, opts Options) (*tideman.Result, bool, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Tabulate", trace.WithAttributes(
		attribute.Int("tideman.candidates", len(set.Candidates)),
		attribute.Int("tideman.groups", len(set.Groups)),
	))
	defer span.End()

	hooks := observability.Tabulation()
	hooks.OnTabulateStart(ctx, len(set.Candidates), len(set.Groups))
	start := time.Now()

	res, hit, err := r.tabulate(ctx, set, opts)

	skipped := 0
	if res != nil {
		_, skipped = countEdges(res)
		span.SetAttributes(
			attribute.Int("tideman.winner", res.Winner),
			attribute.Int("tideman.skipped", skipped),
			attribute.Bool("cache.hit", hit),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	hooks.OnTabulateComplete(ctx, len(set.Candidates), skipped, time.Since(start), err)

	return res, hit, err
}

func (r *Runner) tabulate(ctx context.Context, set ballot.Set, opts Options) (*tideman.Result, bool, error) {
	logger := r.logger(opts)

	// The set must be valid before it is hashed; an invalid set never
	// reaches the cache.
	if err := set.Validate(); err != nil {
		return nil, false, err
	}
	doc, err := pkgio.MarshalBallots(set, pkgio.FormatJSON)
	if err != nil {
		return nil, false, fmt.Errorf("serialize ballots for cache key: %w", err)
	}
	cacheKey := r.Keyer.ResultKey(cache.Hash(doc))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			res, err := pkgio.ReadResult(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeResult)
				return res, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
			logger.Debug("discarding unreadable cached result", "key", cacheKey, "error", err)
		} else if err != nil {
			logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeResult)

	res, err := tideman.Run(set)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := pkgio.MarshalResult(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLResult)); err != nil {
			logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
		}
	}

	return res, false, nil // Cache miss
}

// Tabulate is a convenience wrapper that calls TabulateWithCacheInfo and discards the cache hit info.
func (r *Runner) Tabulate(ctx context.Context, set ballot.Set) (*tideman.Result, error) {
	res, _, err := r.TabulateWithCacheInfo(ctx, set, Options{})
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *tideman.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash, err := resultHash(res)
	if err != nil {
		return nil, false, err
	}
	return r.renderWithHash(ctx, res, hash, opts)
}

func (r *Runner) renderWithHash(ctx context.Context, res *tideman.Result, hash string, opts Options) (map[string][]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Render", trace.WithAttributes(
		attribute.StringSlice("render.formats", opts.Formats),
	))
	defer span.End()

	hooks := observability.Tabulation()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, res, hash, opts)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)

	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, res *tideman.Result, hash string, opts Options) (map[string][]byte, bool, error) {
	logger := r.logger(opts)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			for range opts.Formats {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			}
			return artifacts, true, nil // All artifacts from cache
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	// Render all formats
	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err != nil {
			logger.Warn("cache write failed", "key", cacheKey, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *tideman.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// logger returns the per-call logger if one was set, else the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func resultHash(res *tideman.Result) (string, error) {
	data, err := pkgio.MarshalResult(res)
	if err != nil {
		return "", fmt.Errorf("serialize result for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

func countEdges(res *tideman.Result) (locked, skipped int) {
	for _, e := range res.Edges {
		if e.Status == tideman.StatusLocked {
			locked++
		} else {
			skipped++
		}
	}
	return locked, skipped
}
