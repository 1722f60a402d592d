package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Process-wide leveled logger shared by the CLI and the API service.
// - zap core with a console encoder and an atomic level
// - provides Debug/Info/Warn/Error/Fatal variants and Init(level)
// - writes to stderr unless SetOutput redirects it

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
	base  = newLogger(zapcore.Lock(os.Stderr))
)

func newLogger(w zapcore.WriteSyncer) *zap.SugaredLogger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), w, level)
	return zap.New(core).Sugar()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetOutput redirects all subsequent log entries to w. A nil w restores stderr.
// Loggers already returned by With keep their previous destination.
func SetOutput(w io.Writer) {
	ws := zapcore.Lock(os.Stderr)
	if w != nil {
		ws = zapcore.Lock(zapcore.AddSync(w))
	}
	mu.Lock()
	base = newLogger(ws)
	mu.Unlock()
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level.SetLevel(zap.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zap.WarnLevel)
	case "error":
		level.SetLevel(zap.ErrorLevel)
	case "fatal":
		level.SetLevel(zap.FatalLevel)
	default:
		level.SetLevel(zap.InfoLevel)
	}
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) { current().Fatalf(format, v...) }

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { current().Debug(v) }
func Info(v string)  { current().Info(v) }
func Warn(v string)  { current().Warn(v) }
func Error(v string) { current().Error(v) }

// With returns a child logger carrying the given key/value pairs.
func With(kv ...interface{}) *zap.SugaredLogger {
	return current().With(kv...)
}

// Sync flushes buffered entries. Call before exit.
func Sync() { _ = current().Sync() }

// LevelString returns the current level as text.
func LevelString() string {
	switch level.Level() {
	case zap.DebugLevel:
		return "debug"
	case zap.WarnLevel:
		return "warn"
	case zap.ErrorLevel:
		return "error"
	case zap.FatalLevel:
		return "fatal"
	}
	return "info"
}
