// Package logging builds the leveled logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Options holds configuration for a logger.
type Options struct {
	Level      string
	Format     string
	File       string // empty means Fallback
	Timestamps bool
	Prefix     string
	Fallback   io.Writer
}

// Logger wraps a charmbracelet logger and the file it may own.
type Logger struct {
	*log.Logger
	Session string
	file    *os.File
}

// New creates a logger tagged with a fresh session id. When opts.File is
// set the file is opened for append and closed by Close.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := ParseFormatter(opts.Format)
	if err != nil {
		return nil, err
	}

	w := opts.Fallback
	var f *os.File
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err = os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	if w == nil {
		w = io.Discard
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "tada"
	}
	session := uuid.NewString()[:8]
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.Timestamps,
		Prefix:          prefix,
	}).With("session", session)

	return &Logger{Logger: l, Session: session, file: f}, nil
}

// Discard returns a logger that drops everything. Handy for tests.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// An empty string means info.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn, error)", level)
}

// ParseFormatter parses a formatter name to a charmbracelet/log Formatter.
// An empty string means text.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown log format %q (want text, json, logfmt)", format)
}
