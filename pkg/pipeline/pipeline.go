// Package pipeline provides the core analysis pipeline for minimalloc.
//
// This package implements the complete load → sweep → cuts pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read an allocation problem from a JSON or CSV file and validate it
//  2. Sweep: Run the sweep over buffer lifespans to compute sections,
//     partitions, per-buffer spans, and pairwise overlaps
//  3. Cuts: Derive per-boundary cut counts from the section spans
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Input: "problem.json",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cuts := result.Cuts
//
// Run individual stages:
//
//	// Load only
//	problem, err := runner.Load(ctx, opts)
//
//	// Analyze an already-loaded problem
//	res, err := runner.Analyze(ctx, problem, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	allocio "github.com/Merci306/minimalloc-merci/pkg/io"
	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

// Format constants for the input file format.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatAuto: true,
	FormatJSON: true,
	FormatCSV:  true,
}

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input  string `json:"input,omitempty"`
	Format string `json:"format,omitempty"` // "auto", "json", or "csv"

	// Analysis options
	SkipCuts bool `json:"skip_cuts,omitempty"` // Skip cut count derivation
	Refresh  bool `json:"refresh,omitempty"`   // Bypass the cache and recompute

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Problem is the loaded and validated allocation problem.
	Problem *model.Problem

	// ProblemHash is the content fingerprint of the problem.
	ProblemHash string

	// Sweep holds the sections, partitions, and per-buffer data.
	Sweep sweep.SweepResult

	// Cuts holds per-boundary cut counts, or nil when SkipCuts is set.
	Cuts []sweep.CutCount

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the analysis came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NumBuffers    int
	NumSections   int
	NumPartitions int
	LoadTime      time.Duration
	SweepTime     time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	SweepHit bool // Whether the sweep result came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: auto, json, csv)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return fmt.Errorf("input is required")
	}
	if o.Format == "" {
		o.Format = FormatAuto
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// fileFormat maps the option value to the reader format, consulting the
// input path extension when the format is "auto".
func (o *Options) fileFormat() (allocio.Format, error) {
	switch o.Format {
	case FormatJSON:
		return allocio.FormatJSON, nil
	case FormatCSV:
		return allocio.FormatCSV, nil
	default:
		return allocio.DetectFormat(o.Input)
	}
}
