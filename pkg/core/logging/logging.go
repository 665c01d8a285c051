// Package logging provides structured logging setup using Go's standard library log/slog package.
//
// The logging package configures slog with logfmt format (human-readable key=value pairs)
// and maps string log levels (ERROR, WARNING, INFO, DEBUG) and the numeric
// verbosity of the configuration file to slog levels.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a logger writing to stderr with the specified log level.
// Supported levels (case-insensitive): ERROR, WARNING, INFO, DEBUG.
// Invalid levels default to INFO. Stdout is left to rendered output.
func NewLogger(level string) *slog.Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logfmt logger writing to w.
func NewLoggerTo(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})

	return slog.New(handler)
}

// LevelFromVerbose maps the configuration's verbosity to a level name:
// 0 = WARNING, 1 = INFO, 2 = DEBUG. Out of range values are clamped.
func LevelFromVerbose(verbose int) string {
	switch {
	case verbose <= 0:
		return "WARNING"
	case verbose == 1:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// parseLogLevel converts string log level to slog.Level.
// Returns slog.LevelInfo for invalid or empty levels.
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ERROR":
		return slog.LevelError
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "INFO":
		return slog.LevelInfo
	case "DEBUG":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
