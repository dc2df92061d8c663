// Package render produces visualizations of sweep results.
//
// The overlap graph has one node per buffer and one undirected edge per
// overlapping pair, labeled with the effective sizes in each direction.
// Partitions become Graphviz clusters, so independently solvable groups
// of buffers are visually separated.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

// Options configures overlap graph rendering.
type Options struct {
	// Detailed includes sizes and lifespans in node labels.
	// When false, only the buffer ID is shown.
	Detailed bool

	// NoClusters disables partition clustering.
	NoClusters bool
}

// ToDOT converts a problem and its sweep result to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(problem *model.Problem, result sweep.SweepResult, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if opts.NoClusters || len(result.Partitions) == 0 {
		for _, b := range problem.Buffers {
			writeNode(&buf, "  ", b, opts)
		}
	} else {
		for p, part := range result.Partitions {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", p)
			fmt.Fprintf(&buf, "    label=\"partition %d\";\n", p)
			buf.WriteString("    style=dashed;\n")
			for _, idx := range part.BufferIdxs {
				writeNode(&buf, "    ", problem.Buffers[idx], opts)
			}
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for i, data := range result.BufferData {
		for _, ov := range data.Overlaps {
			j := int(ov.BufferIdx)
			if j <= i {
				continue
			}
			label := edgeLabel(result, i, j)
			fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=10];\n",
				problem.Buffers[i].ID, problem.Buffers[j].ID, label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, b model.Buffer, opts Options) {
	label := fmtLabel(b, opts.Detailed)
	fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, b.ID, label)
}

func fmtLabel(b model.Buffer, detailed bool) string {
	if !detailed {
		return b.ID
	}
	parts := []string{
		fmt.Sprintf("size: %d", b.Size),
		fmt.Sprintf("live: [%d, %d)", b.Lifespan.Lower, b.Lifespan.Upper),
	}
	return b.ID + "\n" + strings.Join(parts, "\n")
}

// edgeLabel renders the effective sizes of an overlapping pair. The
// relation is directional, so both values appear when they differ.
func edgeLabel(result sweep.SweepResult, i, j int) string {
	a, aOK := findOverlap(result, i, j)
	b, bOK := findOverlap(result, j, i)
	switch {
	case aOK && bOK && a != b:
		return fmt.Sprintf("%d/%d", a, b)
	case aOK:
		return fmt.Sprintf("%d", a)
	case bOK:
		return fmt.Sprintf("%d", b)
	default:
		return ""
	}
}

func findOverlap(result sweep.SweepResult, i, j int) (model.Size, bool) {
	for _, ov := range result.BufferData[i].Overlaps {
		if int(ov.BufferIdx) == j {
			return ov.EffectiveSize, true
		}
	}
	return 0, false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv := graphviz.New()
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
