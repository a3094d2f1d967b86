package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		"info":     slog.LevelInfo,
		"warning":  slog.LevelWarn,
		"WARN":     slog.LevelWarn,
		"error":    slog.LevelError,
		"critical": slog.LevelError,
		"none":     levelSilent,
		"chatty":   slog.LevelInfo,
	}
	for verbose, want := range testCases {
		assert.Equal(t, want, logLevel(verbose), verbose)
	}
}

func TestNewLogger_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger("info", "json", buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger("none", "text", buf).Error("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	assert.False(t, newLogger("info", "text", buf).Enabled(context.Background(), slog.LevelDebug))
}
