package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" Debug ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.log")
	logger := NewLogger(LoggerOptions{Level: LogLevelWarn, FilePath: path})

	logger.Info("[Test] dropped %d", 1)
	logger.With("request_id", "abc").Warn("[Test] kept %d", 42)
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"[Test] kept 42"`)
	assert.Contains(t, string(content), `"level":"WARN"`)
	assert.Contains(t, string(content), `"request_id":"abc"`)
	assert.NotContains(t, string(content), "dropped")
	assert.Equal(t, LogLevelWarn, logger.GetLevel())
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Error("[Test] %s", "nothing")
		logger.Trace("[Test] %s", "nothing")
	})
}
