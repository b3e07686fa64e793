package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "sitless", slog.LevelInfo, "json")

	Component(logger, "session").Info("phase complete", slog.Int("sessions_today", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "sitless", record["component"])
	assert.Equal(t, "session", record["subsystem"])
	assert.Equal(t, "phase complete", record["msg"])
	assert.EqualValues(t, 3, record["sessions_today"])
}

func TestNewTextLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "sitless", slog.LevelWarn, "")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "component=sitless")
}
