package dagspec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/radiofrance/dagspec/internal/logger"
	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/radiofrance/dagspec/pkg/junit"
	"github.com/radiofrance/dagspec/pkg/planfile"
	"github.com/radiofrance/dagspec/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

type VerifyOpts struct {
	// Root options
	S3Region string `mapstructure:"s3_region"`

	// Verify specific options
	Concurrency int    `mapstructure:"concurrency"`
	JUnitDir    string `mapstructure:"junit_dir,omitempty"`
}

// FileReport is the outcome of the verification of one plan definition.
type FileReport struct {
	Location string
	DAGName  string
	// Checks is empty when the definition could not be loaded.
	Checks []dag.CheckResult
	// Err is the loading error, or the first failed verification pass.
	Err error
}

func (r FileReport) Passed() bool {
	return r.Err == nil
}

// VerifyFiles loads and verifies the plan definitions found at the given locations,
// at most concurrency at a time. Reports are returned in the order of the locations.
// A definition failing to load or to verify is reported, not returned as an error.
func VerifyFiles(ctx context.Context, source planfile.Source, locations []string,
	concurrency int,
) ([]FileReport, error) {
	reports := make([]FileReport, len(locations))
	limiter := ratelimit.NewChannelRateLimiter(concurrency)

	errG, ctx := errgroup.WithContext(ctx)
	for i, location := range locations {
		errG.Go(func() error {
			if err := limiter.Acquire(ctx); err != nil {
				return err
			}
			defer limiter.Release()

			reports[i] = verifyFile(ctx, source, location)
			return nil
		})
	}

	if err := errG.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

func verifyFile(ctx context.Context, source planfile.Source, location string) FileReport {
	report := FileReport{Location: location}

	graph, err := planfile.LoadDAG(ctx, source, location)
	if err != nil {
		report.Err = err
		return report
	}
	report.DAGName = graph.Name()

	report.Checks = graph.VerifyChecks()
	for _, check := range report.Checks {
		if check.Status == dag.CheckFailed {
			report.Err = check.Err
			break
		}
	}

	logger.Debugf("Verified %s (%s): passed=%t", location, report.DAGName, report.Passed())
	return report
}

// WriteJUnitReports writes one JUnit XML file per loaded definition in dir.
func WriteJUnitReports(dir string, reports []FileReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("can't create junit report directory %s: %w", dir, err)
	}

	for i, report := range reports {
		if len(report.Checks) == 0 {
			continue
		}

		base := strings.TrimSuffix(filepath.Base(report.Location), filepath.Ext(report.Location))
		path := filepath.Join(dir, fmt.Sprintf("junit-%d-%s.xml", i, base))

		if err := writeJUnitReport(path, report); err != nil {
			return err
		}
		logger.Debugf("JUnit report written to %s", path)
	}

	return nil
}

func writeJUnitReport(path string, report FileReport) error {
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("can't create file %s: %w", path, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			logger.Errorf("can't close file %s: %v", path, err)
		}
	}()

	return junit.Write(file, junit.FromChecks(report.DAGName, report.Location, report.Checks))
}
