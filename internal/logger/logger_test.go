package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{Level: "info"})

	var buf bytes.Buffer
	logger = logger.Output(&buf)
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			New(Config{Level: tc.level})
			assert.Equal(t, tc.expected, zerolog.GlobalLevel())
		})
	}
}

func TestOpen_WithoutDir(t *testing.T) {
	_, closer, err := Open(Config{Level: "info"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

func TestOpen_FileSinksSplitByLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, closer, err := Open(Config{Level: "debug", Dir: dir})
	require.NoError(t, err)

	logger.Debug().Msg("debug line")
	logger.Info().Msg("info line")
	logger.Error().Msg("error line")
	require.NoError(t, closer.Close())

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)

	assert.NotContains(t, string(info), "debug line")
	assert.Contains(t, string(info), "info line")
	assert.Contains(t, string(info), "error line")
	assert.NotContains(t, string(errs), "info line")
	assert.Contains(t, string(errs), "error line")
}

func TestOpen_BadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, _, err := Open(Config{Dir: filepath.Join(file, "logs")})
	assert.Error(t, err)
}
