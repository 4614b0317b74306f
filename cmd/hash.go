package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/radiofrance/dagspec/pkg/dagspec"
	"github.com/spf13/cobra"
)

type hashOpts struct {
	// Root options
	S3Region string `mapstructure:"s3_region"`

	// Hash specific options
	Vertices bool `mapstructure:"vertices"`
}

func hashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <plan definition>",
		Short: "Generates a version hash of a plan",
		Long: `dagspec hash will calculate a unique human readable hash of the plan. The hash does not
depend on the order vertices and edges are declared in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := hashOpts{}
			hydrateOptsFromViper(&opts)

			return doHash(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().Bool("vertices", false, "Also print the hash of every vertex.")

	return cmd
}

func doHash(ctx context.Context, w io.Writer, opts hashOpts, location string) error {
	plan, err := loadPlan(ctx, opts.S3Region, location)
	if err != nil {
		return err
	}

	fingerprints, err := dagspec.Fingerprint(ctx, plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, fingerprints.Plan)

	if opts.Vertices {
		names := make([]string, 0, len(fingerprints.Vertices))
		for name := range fingerprints.Vertices {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, fingerprints.Vertices[name])
		}
	}

	return nil
}
