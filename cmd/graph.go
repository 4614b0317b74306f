package cmd

import (
	"context"

	"github.com/radiofrance/dagspec/internal/logger"
	"github.com/radiofrance/dagspec/pkg/graphviz"
	"github.com/spf13/cobra"
)

type graphOpts struct {
	// Root options
	S3Region string `mapstructure:"s3_region"`

	// Graph specific options
	OutputDir string `mapstructure:"output_dir"`
}

func graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <plan definition>",
		Short: "Create a visual representation of a plan",
		Long: `Create a visual representation of a plan using graphviz

In the generated graph, vertices reading a root input are green, vertices writing root outputs
are blue. Edges are labelled with their data movement type, ephemeral edges are dashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := graphOpts{}
			hydrateOptsFromViper(&opts)

			return doGraph(cmd.Context(), opts, args[0])
		},
	}

	cmd.Flags().String("output-dir", ".", "Directory where the .dot and .png files are generated.")

	return cmd
}

func doGraph(ctx context.Context, opts graphOpts, location string) error {
	plan, err := loadPlan(ctx, opts.S3Region, location)
	if err != nil {
		return err
	}

	logger.Debugf("Plan %s:\n%s", plan.Name(), plan.Sprint())

	if err := graphviz.GenerateGraph(ctx, plan, opts.OutputDir); err != nil {
		return err
	}

	logger.Infof("Graph of %s generated in %s", plan.Name(), opts.OutputDir)
	return nil
}
