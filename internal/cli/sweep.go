package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	allocio "github.com/Merci306/minimalloc-merci/pkg/io"
	"github.com/Merci306/minimalloc-merci/pkg/pipeline"
)

// sweepCommand creates the sweep command for analyzing a problem.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "sweep [problem.(json|csv)]",
		Short: "Analyze a problem into sections, partitions, and overlaps",
		Long: `Analyze a memory allocation problem.

The sweep command reads buffer lifespans from a JSON or CSV file, sweeps
them into coarsened cross sections and independently solvable partitions,
and computes the pairwise overlaps with effective sizes. Cut counts for
each section boundary are included unless --skip-cuts is set.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runSweep(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format: json, csv (default: by extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.SkipCuts, "skip-cuts", false, "skip cut count derivation")

	return cmd
}

// runSweep executes the pipeline and writes the result.
func (c *CLI) runSweep(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", opts.Input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		return allocio.WriteResult(os.Stdout, result.Problem, result.Sweep, result.Cuts)
	}
	if err := allocio.ExportResult(output, result.Problem, result.Sweep, result.Cuts); err != nil {
		return err
	}

	printSuccess("Analyzed %s", opts.Input)
	printStats(result.Stats.NumBuffers, result.Stats.NumSections, result.Stats.NumPartitions, result.CacheInfo.SweepHit)
	printFile(output)
	return nil
}
