// SPDX-License-Identifier: MPL-2.0

// Package logging builds the line logger used for progress output.
//
// Lines carry a minute-resolution timestamp and the "fpz" prefix. When a log
// file is configured, every line is also appended to that file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const (
	// Prefix is the logger prefix.
	Prefix = "fpz"
	// TimeFormat is the timestamp layout of every line.
	TimeFormat = "2006-01-02 15:04"
)

// Options configures New.
type Options struct {
	// Writer receives log lines; defaults to os.Stderr.
	Writer io.Writer
	// Level is a level name such as "debug", "info" or "warn"; defaults to "info".
	Level string
	// Verbose forces the debug level.
	Verbose bool
	// File, when set, is opened in append mode and receives a copy of every line.
	File string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger configured by opts and a closer for the log file.
// The closer is never nil.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = log.DebugLevel
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(w, f)
		closer = f
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Level:           level,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops every line.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
