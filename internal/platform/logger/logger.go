package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a structured logger writing to stdout.
func New(level, format string) (*slog.Logger, error) {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter builds a logger for the given level (debug, info, warn, error)
// and format (text or json).
func NewWithWriter(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
