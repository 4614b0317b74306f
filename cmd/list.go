package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/radiofrance/dagspec/pkg/dagspec"
	"github.com/spf13/cobra"
)

func listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <plan definition>",
		Short: "Print the vertices of a plan definition",
		Long:  `dagspec list verifies the plan definition, then prints its vertices`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := dagspec.ListOpts{}
			hydrateOptsFromViper(&opts)

			return doList(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().StringP("output", "o", "", ""+
		"Output format (console|yaml|graphviz|tree|go-template-file)\n"+
		"You can provide a custom format using go-template: like this: \"-o go-template-file=...\".")
	cmd.Flags().StringSliceP("match", "m", nil,
		"Only list vertices whose name matches one of the patterns (\"!pattern\" excludes).")

	return cmd
}

func doList(ctx context.Context, w io.Writer, opts dagspec.ListOpts, location string) error {
	formatOpts, err := dagspec.ParseOutputOptions(opts.Output)
	if err != nil {
		return fmt.Errorf("error while parsing output options: %w", err)
	}

	plan, err := loadPlan(ctx, opts.S3Region, location)
	if err != nil {
		return err
	}

	return dagspec.GenerateList(ctx, w, plan, opts.Match, formatOpts)
}
