package dagspec_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/radiofrance/dagspec/pkg/dagspec"
	"github.com/radiofrance/dagspec/pkg/junit"
	"github.com/radiofrance/dagspec/pkg/mock"
	"github.com/radiofrance/dagspec/pkg/planfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_VerifyFiles(t *testing.T) {
	t.Parallel()

	content, err := os.ReadFile("testdata/wordcount.yaml")
	require.NoError(t, err)
	source := planfile.MultiSource{
		S3: planfile.NewS3SourceFromClient(mock.NewS3ObjectGetter(map[string]string{
			"plans/wordcount.yaml": string(content),
		})),
	}

	locations := []string{
		"testdata/wordcount.yaml",
		"testdata/ephemeral.yaml",
		"testdata/unknown_field.yaml",
		"testdata/missing.yaml",
		"s3://plans/wordcount.yaml",
	}

	reports, err := dagspec.VerifyFiles(context.Background(), source, locations, 2)
	require.NoError(t, err)
	require.Len(t, reports, len(locations))

	for i, report := range reports {
		assert.Equal(t, locations[i], report.Location)
	}

	assert.True(t, reports[0].Passed())
	assert.Equal(t, "wordcount", reports[0].DAGName)
	require.Len(t, reports[0].Checks, 5)

	assert.False(t, reports[1].Passed())
	assert.Equal(t, "ephemeral", reports[1].DAGName)
	assert.ErrorIs(t, reports[1].Err, dag.ErrVerification)
	assert.Contains(t, reports[1].Err.Error(), "Unsupported source type on edge.")
	assert.Equal(t, dag.CheckSkipped, reports[1].Checks[4].Status)

	assert.False(t, reports[2].Passed())
	assert.Empty(t, reports[2].Checks)
	assert.ErrorContains(t, reports[2].Err, "field vertexes not found")

	assert.False(t, reports[3].Passed())
	assert.ErrorContains(t, reports[3].Err, "can't open file testdata/missing.yaml")

	assert.True(t, reports[4].Passed())
}

func Test_VerifyFiles_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := dagspec.VerifyFiles(ctx, planfile.LocalSource{}, []string{"testdata/wordcount.yaml"}, 0)
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, reports)
	}
}

func Test_WriteJUnitReports(t *testing.T) {
	t.Parallel()

	locations := []string{"testdata/wordcount.yaml", "testdata/ephemeral.yaml", "testdata/missing.yaml"}
	reports, err := dagspec.VerifyFiles(context.Background(), planfile.LocalSource{}, locations, 1)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "junit")
	require.NoError(t, dagspec.WriteJUnitReports(dir, reports))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(dir, "junit-1-ephemeral.xml"))
	require.NoError(t, err)

	suite, err := junit.ParseRawLogs(data)
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", suite.Name)
	assert.Equal(t, "5", suite.Tests)
	assert.Equal(t, "1", suite.Failures)
	assert.Equal(t, "1", suite.Skipped)
	assert.Equal(t, "testdata/ephemeral.yaml", suite.TestCases[3].File)
	assert.Contains(t, suite.TestCases[3].Failure, "Unsupported source type on edge.")
}
