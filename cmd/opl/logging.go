package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "none":
		return slog.LevelError + 4, true
	default:
		return slog.LevelWarn, false
	}
}

// newLogger builds the JSON logger used by `opl run`. With a log file the
// logs are appended there; otherwise they go to stderr. The returned
// function closes the file.
func newLogger(level, file string) (*slog.Logger, func(), error) {
	lvl, ok := parseLogLevel(level)
	if !ok {
		return nil, nil, fmt.Errorf("unknown log level %q", level)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory for %q: %w", file, err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %q: %w", file, err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), closeFn, nil
}
