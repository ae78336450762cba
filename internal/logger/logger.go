// Package logger provides process-wide logging for implkit, backed by zap.
//
// All output goes to stderr by default: in stdio mode stdout carries the
// MCP protocol stream and must never receive log lines. Debug messages are
// only emitted when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu       sync.RWMutex
	verbose  bool
	output   io.Writer = os.Stderr
	encoding           = FormatConsole
	level              = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base               = build()
)

// build assembles the zap logger (caller must hold mu for writing, or be
// package initialisation).
func build() *zap.Logger {
	var enc zapcore.Encoder
	if encoding == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(output)), level)
	return zap.New(core)
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build()
}

// SetFormat selects the console or json encoder.
func SetFormat(f string) error {
	switch f {
	case "", FormatConsole:
		f = FormatConsole
	case FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", f)
	}
	mu.Lock()
	defer mu.Unlock()
	encoding = f
	base = build()
	return nil
}

// L returns the underlying zap logger for structured fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	L().Sugar().Debugf("=== %s ===", name)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	L().Sugar().Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	L().Sugar().Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	L().Sugar().Errorf(format, args...)
}
