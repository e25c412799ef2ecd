// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"fiddle/cli/internal/xdg"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the diagnostic logger.
type Config struct {
	Level string // debug, info, warn, error
	// FilePath is the rotating log file; empty means $XDG_STATE_HOME/fiddle/fiddle.log.
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	// Verbose tees debug output to Console.
	Verbose bool
	// Console defaults to os.Stderr.
	Console io.Writer
}

// ParseLevel maps a level name to a zapcore level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the logger. The returned func flushes buffered entries.
// When the log file cannot be placed, only the console core (if verbose) remains.
func New(cfg Config) (*zap.Logger, func()) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core

	path := cfg.FilePath
	if path == "" {
		if dir, err := xdg.StateDir(); err == nil {
			path = filepath.Join(dir, "fiddle.log")
		}
	}
	if path != "" {
		writer := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    orDefault(cfg.MaxSize, 5),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAge, 14),
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), ParseLevel(cfg.Level)))
	}

	if cfg.Verbose {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		consoleConfig := encoderConfig
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(console), zapcore.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() {}
	}
	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return log, func() { _ = log.Sync() }
}

// Secret returns a field whose value is masked.
func Secret(key, value string) zap.Field {
	return zap.String(key, Mask(value))
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
