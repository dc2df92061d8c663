package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Merci306/minimalloc-merci/pkg/cache"
	allocio "github.com/Merci306/minimalloc-merci/pkg/io"
	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/observability"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// cachedAnalysis is the cache payload for a completed analysis.
type cachedAnalysis struct {
	Sweep sweep.SweepResult `json:"sweep"`
	Cuts  []sweep.CutCount  `json:"cuts,omitempty"`
}

// Execute runs the complete load → sweep → cuts pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	problem, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Problem = problem
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NumBuffers = len(problem.Buffers)

	r.Logger.Info("loaded problem",
		"buffers", len(problem.Buffers),
		"capacity", problem.Capacity,
		"duration", result.Stats.LoadTime)

	// Stages 2-3: Sweep and cuts
	analysis, err := r.Analyze(ctx, problem, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.ProblemHash = analysis.ProblemHash
	result.Sweep = analysis.Sweep
	result.Cuts = analysis.Cuts
	result.Stats.NumSections = analysis.Stats.NumSections
	result.Stats.NumPartitions = analysis.Stats.NumPartitions
	result.Stats.SweepTime = analysis.Stats.SweepTime
	result.CacheInfo = analysis.CacheInfo

	r.Logger.Info("computed analysis",
		"sections", result.Stats.NumSections,
		"partitions", result.Stats.NumPartitions,
		"cached", result.CacheInfo.SweepHit,
		"duration", result.Stats.SweepTime)

	return result, nil
}

// Load reads and validates the problem named by the options.
func (r *Runner) Load(ctx context.Context, opts Options) (*model.Problem, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)

	start := time.Now()
	problem, err := r.load(opts)
	numBuffers := 0
	if problem != nil {
		numBuffers = len(problem.Buffers)
	}
	hooks.OnLoadComplete(ctx, opts.Input, numBuffers, time.Since(start), err)
	return problem, err
}

func (r *Runner) load(opts Options) (*model.Problem, error) {
	format, err := opts.fileFormat()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(opts.Input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return allocio.ReadProblem(f, format)
}

// Analyze runs the sweep and cut derivation for an already-loaded problem,
// consulting the cache first unless opts.Refresh is set.
func (r *Runner) Analyze(ctx context.Context, problem *model.Problem, opts Options) (*Result, error) {
	r.applyLogger(&opts)

	key := cache.Fingerprint(problem)
	result := &Result{Problem: problem, ProblemHash: key}
	result.Stats.NumBuffers = len(problem.Buffers)

	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached cachedAnalysis
			if err := json.Unmarshal(data, &cached); err == nil && r.cutsUsable(cached, opts) {
				cacheHooks.OnCacheHit(ctx, "analysis")
				result.Sweep = cached.Sweep
				result.Cuts = cached.Cuts
				result.Stats.NumSections = len(cached.Sweep.Sections)
				result.Stats.NumPartitions = len(cached.Sweep.Partitions)
				result.CacheInfo.SweepHit = true
				return result, nil
			}
			// A corrupt or partial entry falls through to recompute.
		}
		cacheHooks.OnCacheMiss(ctx, "analysis")
	}

	hooks := observability.Pipeline()
	hooks.OnSweepStart(ctx, len(problem.Buffers))

	sweepStart := time.Now()
	result.Sweep = sweep.Sweep(problem)
	result.Stats.SweepTime = time.Since(sweepStart)
	result.Stats.NumSections = len(result.Sweep.Sections)
	result.Stats.NumPartitions = len(result.Sweep.Partitions)
	hooks.OnSweepComplete(ctx, result.Stats.NumSections, result.Stats.NumPartitions, result.Stats.SweepTime)

	if !opts.SkipCuts {
		result.Cuts = result.Sweep.CalculateCuts()
		zeroCuts := 0
		for _, c := range result.Cuts {
			if c == 0 {
				zeroCuts++
			}
		}
		hooks.OnCutsComplete(ctx, len(result.Cuts), zeroCuts)
	}

	if data, err := json.Marshal(cachedAnalysis{Sweep: result.Sweep, Cuts: result.Cuts}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err == nil {
			cacheHooks.OnCacheSet(ctx, "analysis", len(data))
		}
	}

	return result, nil
}

// cutsUsable reports whether a cached entry satisfies the cut requirements
// of this run. An entry computed with SkipCuts cannot serve a run that
// wants cuts.
func (r *Runner) cutsUsable(cached cachedAnalysis, opts Options) bool {
	if opts.SkipCuts {
		return true
	}
	return cached.Cuts != nil || len(cached.Sweep.Sections) <= 1
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
