package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Merci306/minimalloc-merci/pkg/pipeline"
)

// cutsCommand creates the cuts command for printing section boundary cuts.
func (c *CLI) cutsCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "cuts [problem.(json|csv)]",
		Short: "Print per-boundary cut counts for a problem",
		Long: `Print cut counts for a memory allocation problem.

A cut is a buffer whose section span crosses a boundary between two
adjacent sections. One count is printed per boundary, in section order.
Boundaries inside a partition always have at least one cut; boundaries
between partitions have zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runCuts(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format: json, csv (default: by extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runCuts(ctx context.Context, opts pipeline.Options, noCache bool) error {
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

	if len(result.Cuts) == 0 {
		printInfo("No section boundaries")
		return nil
	}
	for i, n := range result.Cuts {
		fmt.Printf("%d\t%d\n", i, n)
	}
	return nil
}
