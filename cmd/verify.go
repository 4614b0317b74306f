package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/radiofrance/dagspec/internal/logger"
	"github.com/radiofrance/dagspec/pkg/dagspec"
	"github.com/spf13/cobra"
)

func verifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <plan definition>...",
		Short: "Verify plan definitions",
		Long: `dagspec verify loads every given plan definition (local path or s3://bucket/key) and runs the
verification passes on the DAG it describes:
  non-empty, unique-names, namespace, edge-properties, acyclic.

The command fails if at least one definition cannot be loaded or fails a pass.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := dagspec.VerifyOpts{}
			hydrateOptsFromViper(&opts)

			return doVerify(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().IntP("concurrency", "c", defaultConcurrency,
		"Maximum number of plan definitions verified at the same time.")
	cmd.Flags().String("junit-dir", "",
		"Directory where a JUnit XML report is written for each plan definition. Disabled when empty.")

	return cmd
}

func doVerify(ctx context.Context, w io.Writer, opts dagspec.VerifyOpts, locations []string) error {
	source, err := newSource(ctx, opts.S3Region, locations)
	if err != nil {
		return err
	}

	reports, err := dagspec.VerifyFiles(ctx, source, locations, opts.Concurrency)
	if err != nil {
		return fmt.Errorf("verification aborted: %w", err)
	}

	var failed int
	for _, report := range reports {
		if report.Passed() {
			fmt.Fprintf(w, "%s %s (%s)\n", pterm.Green("PASS"), report.Location, report.DAGName)
			continue
		}

		failed++
		fmt.Fprintf(w, "%s %s: %v\n", pterm.Red("FAIL"), report.Location, report.Err)
	}

	if opts.JUnitDir != "" {
		if err := dagspec.WriteJUnitReports(opts.JUnitDir, reports); err != nil {
			return err
		}
		logger.Infof("JUnit reports written to %s", opts.JUnitDir)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d plan definitions failed verification", failed, len(reports))
	}

	return nil
}
