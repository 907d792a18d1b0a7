// Package logging builds the zap logger used for --debug output.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLogLevel maps a level name to a zapcore level, defaulting to warn.
func ParseLogLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if s == "" {
		return zapcore.WarnLevel
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// consoleEncoderConfig drops timestamps and callers; debug output is read
// in the terminal next to the command that produced it.
func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// New returns a console logger writing to w. Debug enables debug-level
// entries; otherwise the level comes from CHANGEBLOGGER_LOG_LEVEL (default warn).
func New(w io.Writer, debug bool) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := ParseLogLevel(os.Getenv("CHANGEBLOGGER_LOG_LEVEL"))
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

// Printf adapts a logger to the printf-style debug hooks the git and config
// packages expose.
func Printf(log *zap.Logger) func(format string, args ...any) {
	if log == nil {
		return nil
	}
	sugar := log.Sugar()
	return func(format string, args ...any) {
		sugar.Debug(fmt.Sprintf(format, args...))
	}
}
