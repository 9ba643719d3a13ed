// Package logs sets up structured logging for trajview.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/watchfire-io/trajview/internal/config"
)

var level = new(slog.LevelVar)

// Options controls where log records go.
type Options struct {
	Level string
	// Stderr mirrors records to standard error. Off for the TUI, which owns the terminal.
	Stderr bool
	// File overrides the log file path; empty uses ~/.trajview/logs/trajview.log.
	File string
}

// ParseLevel maps a settings level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// SetLevel changes the level of every logger built by New.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// New builds a logger fanning out to the log file and, optionally, stderr.
// The returned closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	l, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	level.Set(l)

	path := opts.File
	if path == "" {
		if err := config.EnsureGlobalLogsDir(); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure logs dir: %w", err)
		}
		if path, err = config.GlobalLogFile(); err != nil {
			return nil, nil, err
		}
	}
	f, err := config.FS.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
	}
	if opts.Stderr {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return NewWithHandlers(handlers...), f, nil
}

// NewWithHandlers fans records out to the given handlers.
func NewWithHandlers(handlers ...slog.Handler) *slog.Logger {
	return slog.New(slogmulti.Fanout(handlers...))
}

// Discard returns a logger that drops everything. Used by tests and
// library callers that pass no logger.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
