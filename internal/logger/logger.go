// Package logger builds the slog loggers used by the lightspeed command.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Levels beyond the slog defaults.
const (
	LevelTrace = slog.Level(-8)
	// LevelOff is above every level used, so nothing is logged.
	LevelOff = slog.Level(12)
)

// Config describes where and how to log.
type Config struct {
	// Level is one of TRACE, DEBUG, INFO, WARNING, ERROR, OFF. Default: INFO.
	Level string
	// Format is "text" or "json". Default: text.
	Format string
	// File, when set, receives the logs with size-based rotation instead of stderr.
	File string
	// MaxSizeMB is the rotation threshold of File. Default: 100.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Default: 3.
	MaxBackups int
}

// New returns a logger for cfg and a closer for its output (a no-op for stderr).
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	programLevel := new(slog.LevelVar)
	if err := setLoggingLevel(cfg.Level, programLevel); err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
		}
		w, closer = lj, lj
	}

	h, err := newHandler(w, cfg.Format, programLevel)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(h), closer, nil
}

func newHandler(w io.Writer, format string, level slog.Leveler) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("logger: unsupported format %q", format)
	}
}

// setLoggingLevel points programLevel at the named severity.
func setLoggingLevel(level string, programLevel *slog.LevelVar) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	programLevel.Set(lvl)
	return nil
}

// ParseLevel maps a severity name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "OFF":
		return LevelOff, nil
	}
	return 0, fmt.Errorf("logger: unknown level %q", s)
}

// replaceLevel prints TRACE instead of DEBUG-4.
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
