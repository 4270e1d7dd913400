package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LevelInfo, FormatJSON)

	logger.WithField("backend", "redis").Info("store loaded")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "store loaded", entry.Message)
	assert.Equal(t, "redis", entry.Fields["backend"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "warn: shown")
}

func TestWithAddressMasksMiddle(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LevelDebug, FormatText)

	logger.WithAddress("0x52908400098527886E0F7030069857D2E4169EE7").Info("analyzed")

	out := buf.String()
	assert.Contains(t, out, "0x5290…169EE7")
	assert.NotContains(t, out, "8400098527886E0F7030069857D2E4")
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLoggerTo(&buf, LevelInfo, FormatJSON)
	_ = parent.WithFields(map[string]interface{}{"a": 1})

	parent.Info("plain")
	assert.False(t, strings.Contains(buf.String(), `"a"`))
}

func TestContextLogger(t *testing.T) {
	logger := Discard()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestParse(t *testing.T) {
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
	assert.Equal(t, FormatText, ParseLogFormat("text"))
	assert.Equal(t, FormatJSON, ParseLogFormat("yaml"))
}
