package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Config contains logger configuration options
type Config struct {
	// Level is the minimum level to log
	Level string
	// JSON enables JSON formatting instead of text
	JSON bool
	// Output is where logs will be written. Nil discards everything.
	Output io.Writer
}

// Logger wraps slog for structured logging
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = io.Discard
	}

	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewFile opens (or creates) path for appending and logs into it.
// An empty path yields a discarding logger.
func NewFile(path string, level string, json bool) (*Logger, error) {
	if path == "" {
		return New(Config{Level: level, JSON: json}), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(Config{Level: level, JSON: json, Output: f})
	l.closer = f
	return l, nil
}

// Nop returns a logger that drops every record
func Nop() *Logger {
	return New(Config{})
}

// Close releases the underlying log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// LogError logs an error with context information
func (l *Logger) LogError(err error, msg string, args ...any) {
	l.Error(msg, append([]any{"error", err.Error()}, args...)...)
}

// WithSession adds a session ID to the logger's context
func (l *Logger) WithSession(sessionID string) *Logger {
	if sessionID == "" {
		return l
	}
	return &Logger{Logger: l.With("session_id", sessionID), closer: l.closer}
}

// LogRequest logs details about an outgoing HTTP request
func (l *Logger) LogRequest(method, url string, status int, latency time.Duration) {
	l.Debug("request completed",
		"method", method,
		"url", url,
		"status", status,
		"latency_ms", latency.Milliseconds(),
	)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
