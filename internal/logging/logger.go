// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog and zerolog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Debug logs a diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported values for the log format setting.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds the logger selected by format. "console" produces human-readable
// zerolog output; anything else produces slog JSON lines.
func New(format string, w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}

	if format == FormatConsole {
		zl := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
		return NewZerologLogger(zl)
	}

	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
}
