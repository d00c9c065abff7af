// Package logger wires charmbracelet/log into a context-carried logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// Config controls logger construction.
type Config struct {
	Level  string
	Output io.Writer
	// JSON switches to one JSON object per record.
	JSON bool
}

// ParseLevel converts a level name to a charm log level.
func ParseLevel(s string) (charmlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return charmlog.DebugLevel, nil
	case "", "info":
		return charmlog.InfoLevel, nil
	case "warn", "warning":
		return charmlog.WarnLevel, nil
	case "error":
		return charmlog.ErrorLevel, nil
	default:
		return charmlog.InfoLevel, fmt.Errorf("invalid log level: %q (expected: debug|info|warn|error)", s)
	}
}

// New builds a logger; invalid levels fall back to info.
func New(cfg Config) *charmlog.Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = charmlog.InfoLevel
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "autoindent",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return l
}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from ctx. Without one it returns a
// warn-level logger on stderr so library code never has to nil-check.
func FromContext(ctx context.Context) *charmlog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok && l != nil {
			return l
		}
	}
	return fallback
}

var fallback = New(Config{Level: "warn"})
