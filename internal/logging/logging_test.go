package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(slog.LevelInfo, "json", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("graph loaded", slogx.Topic("sum"), slog.Int("agents", 2))

	line := bytes.TrimSpace(buf.Bytes())
	require.True(t, gjson.ValidBytes(line), string(line))
	assert.Equal(t, "graph loaded", gjson.GetBytes(line, "message").String())
	assert.Equal(t, "info", gjson.GetBytes(line, "level").String())
	assert.Equal(t, "sum", gjson.GetBytes(line, "topic").String())
	assert.Equal(t, int64(2), gjson.GetBytes(line, "agents").Int())
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(slog.LevelDebug, "text", &buf)
	require.NoError(t, err)

	logger.Debug("worker started", slogx.Agent("PlusAgent"))
	assert.Contains(t, buf.String(), "worker started")
	assert.Contains(t, buf.String(), "PlusAgent")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(slog.LevelInfo, "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := Setup(slog.LevelWarn, "json", &buf)
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())

	slog.Info("ignored")
	slog.Warn("kept")
	assert.NotContains(t, buf.String(), "ignored")
	assert.Contains(t, buf.String(), "kept")
}
