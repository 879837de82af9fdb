package logger

import "context"

// noopLogger discards everything; it is the global logger until Initialize
// or SetLogger replaces it, so packages can log safely in tests.
type noopLogger struct{}

func (noopLogger) Log(context.Context, LogEntry)  {}
func (noopLogger) Shutdown(context.Context) error { return nil }
