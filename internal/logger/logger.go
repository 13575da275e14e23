// Package logger wraps a process-wide zerolog.Logger behind printf-style
// helpers. Request handlers that need extra fields attach a child logger to
// their context with WithContext and read it back with FromContext.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu        sync.RWMutex
	debugMode bool
	format    = FormatConsole
	out       io.Writer = os.Stderr
	base      zerolog.Logger
)

func init() {
	rebuild()
}

func rebuild() {
	var w io.Writer = out
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	level := zerolog.InfoLevel
	if debugMode {
		level = zerolog.DebugLevel
	}
	base = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetDebugMode toggles debug and warn output.
func SetDebugMode(enabled bool) {
	mu.Lock()
	debugMode = enabled
	rebuild()
	mu.Unlock()
	if enabled {
		Debug("Debug mode enabled")
	}
}

func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugMode
}

// SetFormat switches between human console output and JSON lines.
func SetFormat(f string) error {
	if f != FormatConsole && f != FormatJSON {
		return fmt.Errorf("unknown log format %q", f)
	}
	mu.Lock()
	format = f
	rebuild()
	mu.Unlock()
	return nil
}

// SetOutput redirects all log output, mostly for tests. A nil writer
// restores stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	mu.Lock()
	out = w
	rebuild()
	mu.Unlock()
}

// Get returns the current process logger.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

// WithContext stores l in ctx for FromContext.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or the process logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return Get()
}

func Debug(format string, args ...interface{}) {
	Get().Debug().Msgf(format, args...)
}

func Info(format string, args ...interface{}) {
	Get().Info().Msgf(format, args...)
}

func Error(format string, args ...interface{}) {
	Get().Error().Msgf(format, args...)
}

// Warn is only emitted in debug mode.
func Warn(format string, args ...interface{}) {
	if IsDebugMode() {
		Get().Warn().Msgf(format, args...)
	}
}

// LogRequest logs an incoming HTTP request in debug mode.
func LogRequest(ctx context.Context, method, path, remoteAddr string) {
	FromContext(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Str("remote", remoteAddr).
		Msg("HTTP request")
}

// LogResponse logs a completed HTTP request in debug mode.
func LogResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	FromContext(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", statusCode).
		Dur("duration", duration).
		Msg("HTTP response")
}
