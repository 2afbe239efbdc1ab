// Package logging builds the slog loggers used by the docweaver CLI and
// adapts them to docweaver.WarningSink.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/grahms/docweaver"
)

// Config contains configuration for New.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string

	// Format is the output format ("text" or "json").
	Format string

	// AddSource includes file and line number in records.
	AddSource bool

	// Writer is the output writer (defaults to os.Stderr, stdout carries
	// the converted documents).
	Writer io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	switch strings.ToLower(cfg.Format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: unknown log format: %s", cfg.Format)
	}
}

// ParseLevel parses a level name. An empty name is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Sink forwards conversion warnings to a logger at warn level.
type Sink struct {
	logger *slog.Logger
	attrs  []any
}

// NewSink returns a sink logging through l, or slog.Default when l is nil.
// Every record carries args as extra attributes.
func NewSink(l *slog.Logger, args ...any) *Sink {
	if l == nil {
		l = slog.Default()
	}
	return &Sink{logger: l, attrs: args}
}

var _ docweaver.WarningSink = (*Sink)(nil)

func (s *Sink) AcceptWarning(message string) {
	s.logger.Warn(message, s.attrs...)
}
