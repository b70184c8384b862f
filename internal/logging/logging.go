// Package logging installs the process-wide zap logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const DefaultLevel = "warn"

type Options struct {
	// Level is a zap level name (debug, info, warn, error). Empty means DefaultLevel.
	Level string
	// File enables a rotated JSON log at this path. Empty disables it.
	File string
	// Console receives human-readable logs. Nil disables console logging, which the TUI
	// needs since it owns the terminal.
	Console io.Writer
}

// Setup builds the logger, replaces the zap globals and returns a flush func.
func Setup(opts Options) (func(), error) {
	level := zap.NewAtomicLevel()
	name := strings.TrimSpace(opts.Level)
	if name == "" {
		name = DefaultLevel
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return func() {}, err
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(opts.Console),
			level,
		))
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return func() {}, err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    16,
				MaxBackups: 3,
				MaxAge:     28,
			}),
			level,
		))
	}

	logger := zap.NewNop()
	if len(cores) > 0 {
		logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	}
	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
	}, nil
}
