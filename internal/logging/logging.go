// Package logging builds the zap loggers used by shelf and shelfd.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Entry keys written by New. logtail reads them back.
const (
	TimeKey    = "timestamp"
	LevelKey   = "level"
	MessageKey = "message"
	NameKey    = "logger"
	CallerKey  = "caller"
)

// New returns a JSON logger at the given level. An empty path logs to
// stderr; otherwise entries are appended to path, creating its directory.
func New(level, path string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	output := "stderr"
	if strings.TrimSpace(path) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		output = path
	}

	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        TimeKey,
			LevelKey:       LevelKey,
			NameKey:        NameKey,
			CallerKey:      CallerKey,
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     MessageKey,
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return zapcore.InfoLevel, fmt.Errorf("log level %q: want debug, info, warn or error", level)
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}
