package config

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tabscope/tabscope/pkg/errors"
)

// NewLogger builds the zerolog logger described by cfg. Console mode writes
// human-readable output to stderr; otherwise logs append to the configured
// file so terminal output stays clean for the display layer.
func NewLogger(cfg LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.Console || cfg.FilePath == "" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr}
		return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
	}

	logDir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zerolog.Nop(), errors.New(ErrLogDirCreateFailed, "failed to create log directory", err)
	}

	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), errors.New(ErrLogFileOpenFailed, "failed to open log file", err)
	}

	return zerolog.New(file).Level(level).With().Timestamp().Logger(), nil
}

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, errors.Newf(ErrInvalidLogLevel, "invalid log level %q", level)
	}
	return parsed, nil
}
