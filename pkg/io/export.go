package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

// WriteProblem encodes a problem as indented JSON. The output can be
// re-imported with [ReadProblem] for round-trip processing.
func WriteProblem(w io.Writer, problem *model.Problem) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(problem); err != nil {
		return fmt.Errorf("encode problem: %w", err)
	}
	return nil
}

// ExportProblem writes the problem as JSON to the file at path.
func ExportProblem(path string, problem *model.Problem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteProblem(f, problem); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

// bufferResult pairs a buffer's ID with its sweep output so consumers do
// not need the original problem to interpret buffer indices.
type bufferResult struct {
	ID           string              `json:"id"`
	SectionSpans []sweep.SectionSpan `json:"section_spans"`
	Overlaps     []sweep.Overlap     `json:"overlaps,omitempty"`
}

type resultDoc struct {
	Sections   []sweep.Section   `json:"sections"`
	Partitions []sweep.Partition `json:"partitions"`
	Buffers    []bufferResult    `json:"buffers"`
	Cuts       []sweep.CutCount  `json:"cuts"`
}

// WriteResult encodes a sweep result and its cut counts as indented JSON
// for a downstream placement solver. Buffer entries appear in problem
// order, each carrying the buffer's ID alongside its spans and overlaps.
func WriteResult(w io.Writer, problem *model.Problem, result sweep.SweepResult, cuts []sweep.CutCount) error {
	doc := resultDoc{
		Sections:   result.Sections,
		Partitions: result.Partitions,
		Buffers:    make([]bufferResult, len(result.BufferData)),
		Cuts:       cuts,
	}
	for i, data := range result.BufferData {
		doc.Buffers[i] = bufferResult{
			ID:           problem.Buffers[i].ID,
			SectionSpans: data.SectionSpans,
			Overlaps:     data.Overlaps,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// ExportResult writes the sweep result as JSON to the file at path.
func ExportResult(path string, problem *model.Problem, result sweep.SweepResult, cuts []sweep.CutCount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteResult(f, problem, result, cuts); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
