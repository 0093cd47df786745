// Package logger provides structured logging built on log/slog with
// context-aware trace ID enrichment.
package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Level represents a logging level.
type Level slog.Level

// Logging levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// TraceIDFn extracts a trace ID from the context, or returns "" if none.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is the logging contract used across the application.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger implements LoggerInterface on top of slog.
type Logger struct {
	handler   slog.Handler
	traceIDFn TraceIDFn
}

// New creates a Logger writing JSON records to w at the given minimum level.
// service is attached to every record; traceIDFn may be nil.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	f := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok {
				v := source.File
				if idx := lastSlash(v); idx >= 0 {
					v = v[idx+1:]
				}
				a.Value = slog.StringValue(v)
			}
		}
		return a
	}

	handler := slog.Handler(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.Level(minLevel),
		ReplaceAttr: f,
	}))

	if service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", service)})
	}

	return &Logger{handler: handler, traceIDFn: traceIDFn}
}

// With returns a logger with the given attributes attached to every record.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{
		handler:   slog.New(l.handler).With(args...).Handler(),
		traceIDFn: l.traceIDFn,
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelError, msg, args...)
}

func (l *Logger) write(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip [Callers, write, exported method]

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])

	if l.traceIDFn != nil {
		if traceID := l.traceIDFn(ctx); traceID != "" {
			r.Add("trace_id", traceID)
		}
	}

	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
