package logger

import (
	"context"
	"os"
	"strings"
	"time"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

type attributes = map[string]any

type LogEntry struct {
	Level      LogLevel
	Message    string
	Attributes attributes
	Error      error
	Timestamp  time.Time
}

type Logger interface {
	Log(ctx context.Context, entry LogEntry)
	Shutdown(ctx context.Context) error
}

var globalLogger Logger = noopLogger{}

func ParseLevel(value string) LogLevel {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(value))) {
	case LogLevelInfo:
		return LogLevelInfo
	case LogLevelWarn:
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	default:
		return LogLevelDebug
	}
}

func newLogEntry(level LogLevel, message string, err error, attrs attributes) LogEntry {
	return LogEntry{
		Level:      level,
		Message:    message,
		Attributes: attrs,
		Error:      err,
		Timestamp:  time.Now(),
	}
}

func Debug(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelDebug, message, nil, attrs))
}

func Info(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelInfo, message, nil, attrs))
}

func Warn(ctx context.Context, message string, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelWarn, message, nil, attrs))
}

func Error(ctx context.Context, message string, err error, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelError, message, err, attrs))
}

const fatalFlushTimeout = 5 * time.Second

var exit = os.Exit

// Fatal flushes the logger and exits the process with status 1.
func Fatal(ctx context.Context, message string, err error, attrs attributes) {
	globalLogger.Log(ctx, newLogEntry(LogLevelFatal, message, err, attrs))

	flushCtx, cancel := context.WithTimeout(context.Background(), fatalFlushTimeout)
	_ = globalLogger.Shutdown(flushCtx)
	cancel()
	exit(1)
}

func Log(ctx context.Context, entry LogEntry) {
	globalLogger.Log(ctx, entry)
}

func Shutdown(ctx context.Context) error {
	return globalLogger.Shutdown(ctx)
}

type Options struct {
	CollectorEndpoint string
	ServiceName       string
	Production        bool
	Level             LogLevel
}

// SetLogger replaces the global logger and returns the previous one.
func SetLogger(l Logger) Logger {
	previous := globalLogger
	globalLogger = l
	return previous
}

func Initialize(opts Options) error {
	var (
		l   Logger
		err error
	)

	if opts.Production {
		l, err = initializeOtelLogger(opts.CollectorEndpoint, opts.ServiceName)
	} else {
		l, err = initStdoutLogger(os.Stdout, opts.ServiceName, opts.Level)
	}

	if err != nil {
		return err
	}

	globalLogger = l
	return nil
}
