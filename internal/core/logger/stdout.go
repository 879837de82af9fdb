package logger

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"
)

type StdoutLogger struct {
	logger *slog.Logger
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError, LogLevelFatal:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func initStdoutLogger(w io.Writer, serviceName string, level LogLevel) (Logger, error) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: toSlogLevel(level),
	})

	handlerWithAttrs := handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
	})

	return &StdoutLogger{
		logger: slog.New(handlerWithAttrs),
	}, nil
}

func (l *StdoutLogger) Log(ctx context.Context, entry LogEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	keys := make([]string, 0, len(entry.Attributes))
	for key := range entry.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys)*2+4)
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	for _, key := range keys {
		attrs = append(attrs, key, entry.Attributes[key])
	}
	if entry.Error != nil {
		attrs = append(attrs, "error", entry.Error.Error())
	}

	switch entry.Level {
	case LogLevelDebug:
		l.logger.DebugContext(ctx, entry.Message, attrs...)
	case LogLevelInfo:
		l.logger.InfoContext(ctx, entry.Message, attrs...)
	case LogLevelWarn:
		l.logger.WarnContext(ctx, entry.Message, attrs...)
	case LogLevelError:
		l.logger.ErrorContext(ctx, entry.Message, attrs...)
	case LogLevelFatal:
		l.logger.ErrorContext(ctx, entry.Message, attrs...)
	}
}

func (l *StdoutLogger) Shutdown(context.Context) error {
	return nil
}
