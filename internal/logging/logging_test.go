package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/docquery-go/internal/config"
	"github.com/AntonStoeckl/docquery-go/internal/logging"
)

func Test_New_WritesInTheConfiguredFormat(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{name: "text", format: config.LogFormatText, expected: `msg="query answered" result_count=5`},
		{name: "json", format: config.LogFormatJSON, expected: `"msg":"query answered","result_count":5`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			var buf bytes.Buffer
			logger, err := logging.New(&buf, config.LogConfig{Level: "info", Format: tc.format})
			require.NoError(t, err)

			// act
			logger.Debug("statement parsed")
			logger.Info("query answered", "result_count", 5)

			// assert
			assert.Contains(t, buf.String(), tc.expected)
			assert.NotContains(t, buf.String(), "statement parsed")
		})
	}
}

func Test_New_ShouldFail(t *testing.T) {
	_, levelErr := logging.New(&bytes.Buffer{}, config.LogConfig{Level: "verbose"})
	_, formatErr := logging.New(&bytes.Buffer{}, config.LogConfig{Format: "xml"})

	assert.ErrorIs(t, levelErr, logging.ErrUnknownLevel)
	assert.ErrorIs(t, formatErr, config.ErrUnknownLogFormat)
}

func Test_ParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}

	for input, expected := range tests {
		level, err := logging.ParseLevel(input)

		assert.NoError(t, err)
		assert.Equal(t, expected, level)
	}
}
