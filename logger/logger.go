// Package logger is the diagnostic logging hook used across preflight.
//
// Nothing is logged by default. Install a LogFunc to route messages into the
// host application's logger:
//
//	logger.SetLogger(func(level logger.LogLevel, msg string, keyvals ...any) {
//	    slogger.Log(ctx, toSlogLevel(level), msg, keyvals...)
//	})
package logger

import "sync"

// LogLevel represents log severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	ErrorLevel LogLevel = "error"
)

// LogFunc is a single logger function that handles all levels.
// keyvals alternate between keys and values.
type LogFunc func(level LogLevel, msg string, keyvals ...any)

var (
	mu      sync.RWMutex
	logFunc LogFunc = func(LogLevel, string, ...any) {}
)

// SetLogger sets the global logger function. A nil f restores the silent
// default.
func SetLogger(f LogFunc) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		f = func(LogLevel, string, ...any) {}
	}
	logFunc = f
}

func current() LogFunc {
	mu.RLock()
	defer mu.RUnlock()
	return logFunc
}

// Debug logs a message at debug level
func Debug(msg string, keyvals ...any) {
	current()(DebugLevel, msg, keyvals...)
}

// Error logs a message at error level
func Error(msg string, keyvals ...any) {
	current()(ErrorLevel, msg, keyvals...)
}
