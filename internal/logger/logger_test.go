package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlog_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "warn", Format: "json", Output: &buf})

	log.Info("dropped")
	log.Warn("kept", "query", "cats")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "cats", entry["query"])
	assert.NotEmpty(t, entry["time"])
}

func TestNewSlog_Text(t *testing.T) {
	var buf bytes.Buffer
	NewSlog(SlogConfig{Level: "debug", Format: "TEXT", Output: &buf}).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
