package app

import (
	"io"
	"log/slog"
	"strings"
)

// levelSilent is above every level slog emits.
const levelSilent = slog.LevelError + 4

// logLevel maps an engine verbosity to a log level. Unknown values log at
// info; the engine still receives them unchanged.
func logLevel(verbose string) slog.Level {
	switch strings.ToLower(verbose) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	case "none":
		return levelSilent
	default:
		return slog.LevelInfo
	}
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(verbose, formatStr string, outW io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: logLevel(verbose)}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
