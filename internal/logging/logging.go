// Package logging sets up the process-wide slog logger: level read from an
// environment variable, lines prefixed with time elapsed since startup
// rather than a wall-clock timestamp -- the Go analogue of the upstream
// Rust binary's env_logger + elapsed-time formatter (original_source/src/logging.rs).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// EnvVar is the environment variable consulted for the log level, the
// analogue of RUST_LOG in the upstream binary.
const EnvVar = "SORTNETGO_LOG"

var startup = time.Now()

// Setup installs a process-wide slog logger reading its level from EnvVar
// (default "info") and returns it. Call once, early in main.
func Setup() *slog.Logger {
	level := parseLevel(os.Getenv(EnvVar))
	handler := &elapsedHandler{
		out:   os.Stderr,
		level: level,
		color: isatty.IsTerminal(os.Stderr.Fd()),
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

// elapsedHandler renders "MMM:SS.mmm: message key=value ..." lines relative
// to process start, matching spec.md §6's log-line format exactly.
type elapsedHandler struct {
	out   io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
}

func (h *elapsedHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *elapsedHandler) Handle(_ context.Context, r slog.Record) error {
	elapsed := time.Since(startup)
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	millis := elapsed.Milliseconds() % 1000

	prefix := fmt.Sprintf("%3d:%02d.%03d: ", minutes, seconds, millis)
	if h.color {
		prefix = colorFor(r.Level) + prefix + resetColor
	}

	line := prefix + r.Message
	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *elapsedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *elapsedHandler) WithGroup(_ string) slog.Handler {
	return h
}

const resetColor = "\x1b[0m"

func colorFor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\x1b[31m"
	case level >= slog.LevelWarn:
		return "\x1b[33m"
	case level >= slog.LevelInfo:
		return "\x1b[36m"
	default:
		return "\x1b[90m"
	}
}
