// Package debug holds the process-wide slog logger used by the resource
// layer and the command line tool.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
)

// Init enables or disables debug output on os.Stderr.
func Init(enable bool) {
	Configure(os.Stderr, enable)
}

// Configure points the logger at w. With enable set every level down to
// debug is written; otherwise only warnings and errors are.
func Configure(w io.Writer, enable bool) {
	level := slog.LevelWarn
	if enable {
		level = slog.LevelDebug
	}

	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Enabled reports whether debug output is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

func Info(msg string, args ...any) { Logger().Info(msg, args...) }

func Warn(msg string, args ...any) { Logger().Warn(msg, args...) }

func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// With returns the current logger with args attached.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
