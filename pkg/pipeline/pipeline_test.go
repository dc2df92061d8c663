package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Merci306/minimalloc-merci/pkg/cache"
	"github.com/Merci306/minimalloc-merci/pkg/observability"
)

const overlappingProblem = `{
  "capacity": 16,
  "buffers": [
    {"id": "a", "lifespan": {"lower": 0, "upper": 4}, "size": 4},
    {"id": "b", "lifespan": {"lower": 2, "upper": 6}, "size": 8}
  ]
}`

func writeProblemFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	opts := Options{Input: writeProblemFile(t, "problem.json", overlappingProblem)}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Stats.NumBuffers != 2 {
		t.Errorf("NumBuffers = %d, want 2", result.Stats.NumBuffers)
	}
	if result.Stats.NumSections != 2 {
		t.Errorf("NumSections = %d, want 2", result.Stats.NumSections)
	}
	if result.Stats.NumPartitions != 1 {
		t.Errorf("NumPartitions = %d, want 1", result.Stats.NumPartitions)
	}
	if len(result.Cuts) != 1 || result.Cuts[0] != 1 {
		t.Errorf("Cuts = %v, want [1]", result.Cuts)
	}
	if result.ProblemHash == "" {
		t.Error("ProblemHash is empty")
	}
	if result.CacheInfo.SweepHit {
		t.Error("first run reported a cache hit")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(ctx, Options{}); err == nil {
		t.Error("Execute with no input succeeded")
	}
	if _, err := runner.Execute(ctx, Options{Input: "p.json", Format: "xml"}); err == nil {
		t.Error("Execute with bad format succeeded")
	}
}

func TestExecuteInvalidProblem(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	path := writeProblemFile(t, "bad.json", `{"capacity": -1, "buffers": []}`)
	if _, err := runner.Execute(ctx, Options{Input: path}); err == nil {
		t.Error("Execute with negative capacity succeeded")
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	opts := Options{Input: writeProblemFile(t, "problem.json", overlappingProblem)}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if first.CacheInfo.SweepHit {
		t.Error("first run reported a cache hit")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !second.CacheInfo.SweepHit {
		t.Error("second run did not hit the cache")
	}
	if !second.Sweep.Equal(first.Sweep) {
		t.Error("cached sweep result differs from computed result")
	}
	if len(second.Cuts) != len(first.Cuts) {
		t.Errorf("cached cuts = %v, want %v", second.Cuts, first.Cuts)
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute failed: %v", err)
	}
	if third.CacheInfo.SweepHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecuteSkipCuts(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	opts := Options{
		Input:    writeProblemFile(t, "problem.json", overlappingProblem),
		SkipCuts: true,
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Cuts != nil {
		t.Errorf("Cuts = %v, want nil", result.Cuts)
	}
}

type cutsRecorder struct {
	observability.NoopPipelineHooks
	numBoundaries int
	numZeroCuts   int
}

func (r *cutsRecorder) OnCutsComplete(_ context.Context, numBoundaries, numZeroCuts int) {
	r.numBoundaries = numBoundaries
	r.numZeroCuts = numZeroCuts
}

func TestExecuteCutsHook(t *testing.T) {
	rec := &cutsRecorder{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	// Two lifespan-disjoint buffers: one boundary, crossed by nothing.
	path := writeProblemFile(t, "problem.json", `{
	  "buffers": [
	    {"id": "a", "lifespan": {"lower": 0, "upper": 4}, "size": 4},
	    {"id": "b", "lifespan": {"lower": 6, "upper": 10}, "size": 4}
	  ]
	}`)
	if _, err := runner.Execute(ctx, Options{Input: path}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if rec.numBoundaries != 1 || rec.numZeroCuts != 1 {
		t.Errorf("OnCutsComplete(%d, %d), want (1, 1)", rec.numBoundaries, rec.numZeroCuts)
	}
}

func TestExecuteCachedWithoutCuts(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	path := writeProblemFile(t, "problem.json", overlappingProblem)

	// Seed the cache with a cut-free entry.
	if _, err := runner.Execute(ctx, Options{Input: path, SkipCuts: true}); err != nil {
		t.Fatalf("seeding Execute failed: %v", err)
	}

	// A run that wants cuts must not be served by that entry.
	result, err := runner.Execute(ctx, Options{Input: path})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.CacheInfo.SweepHit {
		t.Error("cut-free cache entry served a run that wants cuts")
	}
	if len(result.Cuts) != 1 {
		t.Errorf("Cuts = %v, want [1]", result.Cuts)
	}
}
