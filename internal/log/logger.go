package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
	level  = new(slog.LevelVar)
)

// Options controls where and how the global logger writes.
type Options struct {
	Level  string
	Format string // text | json
	Output io.Writer
}

// Setup initializes the global logger.
// logic: default to INFO. If level is invalid, fallback to INFO.
// Output defaults to stderr; stdout belongs to the protocol.
func Setup(opts Options) {
	once.Do(func() {
		level.Set(ParseLevel(opts.Level))

		out := opts.Output
		if out == nil {
			out = os.Stderr
		}

		handlerOpts := &slog.HandlerOptions{
			Level: level,
		}
		var handler slog.Handler
		if strings.EqualFold(opts.Format, "json") {
			handler = slog.NewJSONHandler(out, handlerOpts)
		} else {
			handler = slog.NewTextHandler(out, handlerOpts)
		}
		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

// ParseLevel maps a level name to a slog.Level, falling back to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level returns the current level of the global logger.
func Level() slog.Level {
	return level.Level()
}

// Get returns the configured logger, or a default one if Setup hasn't been called.
func Get() *slog.Logger {
	if logger == nil {
		Setup(Options{Level: "INFO"})
	}
	return logger
}

// WithComponent returns a logger with the component field set.
func WithComponent(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// WithTask returns a logger with the task_id field set.
func WithTask(id string) *slog.Logger {
	return Get().With(slog.String("task_id", id))
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}
