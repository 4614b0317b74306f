package logger_test

import (
	"os"
	"testing"

	"github.com/radiofrance/dagspec/internal/logger"
	"github.com/radiofrance/dagspec/pkg/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:paralleltest // The logger is global.
func TestLogger(t *testing.T) {
	buf := mock.NewWriter()
	logger.SetWriter(buf)
	t.Cleanup(func() {
		logger.SetWriter(os.Stderr)
		require.NoError(t, logger.SetLevel("info"))
	})

	logger.Infof("this is info")
	logger.Debugf("should not be displayed")
	assert.Contains(t, buf.GetString(), "this is info")
	assert.NotContains(t, buf.GetString(), "should not be displayed")

	require.NoError(t, logger.SetLevel("debug"))
	logger.Debugf("should be displayed")
	assert.Equal(t, logger.LogLevelDebug, logger.Get().Level)
	assert.Contains(t, buf.GetString(), "should be displayed")

	logger.Warnf("this is a warning")
	logger.Errorf("this is an error")
	assert.Contains(t, buf.GetString(), "WARN")
	assert.Contains(t, buf.GetString(), "this is an error")

	require.NoError(t, logger.SetLevel(""))
	assert.Equal(t, logger.LogLevelDebug, logger.Get().Level)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		given    string
		expected logger.LogLevel
	}{
		{given: "debug", expected: logger.LogLevelDebug},
		{given: "info", expected: logger.LogLevelInfo},
		{given: "warning", expected: logger.LogLevelWarn},
		{given: "warn", expected: logger.LogLevelWarn},
		{given: "error", expected: logger.LogLevelError},
		{given: "fatal", expected: logger.LogLevelFatal},
	}

	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			t.Parallel()

			lvl, err := logger.ParseLevel(test.given)
			require.NoError(t, err)
			assert.Equal(t, test.expected, lvl)
		})
	}

	_, err := logger.ParseLevel("verbose")
	require.EqualError(t, err, "\"verbose\" is not a valid log level")
}

func TestLogger_CanPrint(t *testing.T) {
	t.Parallel()

	l := logger.Logger{Level: logger.LogLevelWarn}
	assert.False(t, l.CanPrint(logger.LogLevelInfo))
	assert.True(t, l.CanPrint(logger.LogLevelWarn))
	assert.True(t, l.CanPrint(logger.LogLevelFatal))
	assert.Equal(t, "WARN", logger.LogLevelWarn.String())
}
