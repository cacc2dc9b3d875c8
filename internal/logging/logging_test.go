package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Config{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer closer.Close()
	log.Info("hidden")
	log.Warn("shown", slog.Int("n", 1))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown n=1")

	_, _, err = New(Config{Level: "loud"}, &buf)
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "psurf.log")
	log, closer, err := New(Config{Level: "info", File: file, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)
	log.With(slog.String("shape", "cube")).WithGroup("frame").Info("drawn", slog.Int("parts", 3))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"drawn"`)
	assert.Contains(t, string(data), `"shape":"cube"`)
	assert.Contains(t, string(data), `"frame":{"parts":3}`)
	assert.Contains(t, buf.String(), "shape=cube frame.parts=3")
	assert.True(t, log.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Handler().Enabled(context.Background(), slog.LevelDebug))
}
