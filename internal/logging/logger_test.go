package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLogger_KeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json"}, &buf)

	l.Info("recipe updated", "collection", "recipes", "attempt", 2)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "recipe updated", lines[0]["message"])
	assert.Equal(t, "recipes", lines[0]["collection"])
	assert.EqualValues(t, 2, lines[0]["attempt"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn"}, &buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	assert.Len(t, decodeLines(t, &buf), 2)
}

func TestLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "chatty"}, &buf)

	l.Debug("hidden")
	l.Info("shown")

	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestLogger_ChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{}, &buf)

	l.WithModule("cookbook").
		With("collection", "menus").
		WithError(errors.New("boom")).
		Warn("command failed")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "cookbook", lines[0]["module"])
	assert.Equal(t, "menus", lines[0]["collection"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestLogger_OddArgumentCountIsTolerated(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{}, &buf)

	assert.NotPanics(t, func() { l.Info("odd", "key") })
	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg := ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
}
