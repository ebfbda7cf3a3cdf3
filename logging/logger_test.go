package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		trace   bool
		debug   bool
		info    bool
		warning bool
	}{
		{"trace", true, true, true, true},
		{"debug", false, true, true, true},
		{"info", false, false, true, true},
		{"WARN", false, false, false, true},
		{"", false, false, true, true},
		{"bogus", false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})

			logger.Trace().Msg("trace message")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Warn().Msg("warn message")

			out := buf.String()
			assert.Equal(t, tt.trace, bytes.Contains([]byte(out), []byte("trace message")))
			assert.Equal(t, tt.debug, bytes.Contains([]byte(out), []byte("debug message")))
			assert.Equal(t, tt.info, bytes.Contains([]byte(out), []byte("info message")))
			assert.Equal(t, tt.warning, bytes.Contains([]byte(out), []byte("warn message")))
		})
	}
}

func TestNewWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithComponent(Config{Level: "info", Output: &buf}, "executor")
	logger.Info().Str("sql", "SELECT 1").Msg("query")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "executor", event["component"])
	assert.Equal(t, "SELECT 1", event["sql"])
	assert.Equal(t, "info", event["level"])
	assert.Contains(t, event, "time")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(zerolog.New(&buf), "relation")
	logger.Info().Msg("loaded")
	assert.Contains(t, buf.String(), `"component":"relation"`)
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Pretty: true, Output: &buf})
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}
