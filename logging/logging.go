//
// logging - leveled logging for the mbed FOTA tools
//
// Copyright (c) 2025 Canonical Ltd.
//

// Package logging builds the slog loggers shared by bootstrap and
// firmwarize. The minimum level is read from the LOGLEVEL environment
// variable using the familiar names debug, info, warning, error and
// critical.
//
// When stderr is a terminal records are written one per line with a
// coloured level label; otherwise slog's key=value text format is used so
// that output captured by CI stays machine readable.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// EnvLevel is the environment variable selecting the minimum log level.
const EnvLevel = "LOGLEVEL"

// LevelCritical sits above slog.LevelError.
const LevelCritical = slog.Level(12)

// ParseLevel maps a level name, in any case, to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// LevelName returns the label printed for level.
func LevelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARNING"
	case level < LevelCritical:
		return "ERROR"
	}
	return "CRITICAL"
}

// New returns a logger writing to w at the level named by levelName. An
// unknown name selects info and is reported through the returned logger.
func New(w io.Writer, levelName string) *slog.Logger {
	level, parseErr := ParseLevel(levelName)

	var handler slog.Handler
	if isTerminal(w) {
		handler = newConsoleHandler(w, level, true)
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevel,
		})
	}

	logger := slog.New(handler)
	if parseErr != nil {
		logger.Warn("ignoring "+EnvLevel, "error", parseErr)
	}
	return logger
}

// FromEnv returns a stderr logger configured from LOGLEVEL.
func FromEnv() *slog.Logger {
	return New(os.Stderr, os.Getenv(EnvLevel))
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(level))
		}
	}
	return a
}
