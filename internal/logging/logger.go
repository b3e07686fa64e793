// Package logging builds the structured loggers used across sitless.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a structured logger tagged with component. format is "json" or
// "text"; anything else falls back to text.
func New(w io.Writer, component string, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("component", component),
	)
}

// Component derives a child logger for a subsystem.
func Component(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("subsystem", component))
}
