package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Merci306/minimalloc-merci/pkg/pipeline"
	"github.com/Merci306/minimalloc-merci/pkg/render"
)

// visualizeCommand creates the visualize command for rendering overlap graphs.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
	)
	opts := pipeline.Options{SkipCuts: true}
	renderOpts := render.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [problem.(json|csv)]",
		Short: "Render the overlap graph as DOT, SVG, or PNG",
		Long: `Render the overlap graph of a memory allocation problem.

Each buffer becomes a node and each overlapping pair an edge labeled
with the effective sizes in both directions. Partitions are drawn as
dashed clusters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runVisualize(cmd.Context(), opts, renderOpts, format, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png")
	cmd.Flags().StringVar(&opts.Format, "input-format", "", "input format: json, csv (default: by extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&renderOpts.Detailed, "detailed", false, "include sizes and lifespans in labels")
	cmd.Flags().BoolVar(&renderOpts.NoClusters, "no-clusters", false, "disable partition clustering")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, opts pipeline.Options, renderOpts render.Options, format, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	dot := render.ToDOT(result.Problem, result.Sweep, renderOpts)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(ctx, dot)
	case "png":
		data, err = render.RenderPNG(ctx, dot)
	default:
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		if format != "dot" {
			return fmt.Errorf("format %q requires --output", format)
		}
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered overlap graph")
	printStats(result.Stats.NumBuffers, result.Stats.NumSections, result.Stats.NumPartitions, result.CacheInfo.SweepHit)
	printFile(output)
	return nil
}
