// Package logging builds the zerolog loggers used across postboard.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where log records go.
type Options struct {
	// File receives JSON records. Ignored when Console is set.
	File string
	// Console, when non-nil, gets human-readable output instead of a file.
	Console io.Writer
	Level   string
}

// New returns a logger and a function that releases its output.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}

	if opts.Console != nil {
		w := zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.RFC3339}
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), noop, nil
	}

	if level == zerolog.Disabled || strings.TrimSpace(opts.File) == "" {
		return zerolog.Nop(), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f.Close, nil
}

// ParseLevel maps a config level name onto zerolog. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

func noop() error { return nil }
