// Package logging provides the leveled logger the powder hosts hand to the
// kernel and use for their own diagnostics.
package logging

import (
	"io"
	"log"
	"strings"
)

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string log level (case-insensitive). Unknown values
// fall back to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides leveled logging on top of a standard library logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New creates a logger writing to the standard logger's output.
func New(level string) *Logger {
	return &Logger{level: ParseLevel(level), out: log.Default()}
}

// NewWriter creates a logger writing to w with the given prefix. The TUI host
// uses it to keep log lines off the terminal screen.
func NewWriter(w io.Writer, prefix, level string) *Logger {
	return &Logger{level: ParseLevel(level), out: log.New(w, prefix, log.LstdFlags)}
}

func (l *Logger) shouldLog(level Level) bool {
	return level >= l.level
}

// Debugf logs a debug message
func (l *Logger) Debugf(format string, v ...any) {
	if l.shouldLog(LevelDebug) {
		l.out.Printf("[DEBUG] "+format, v...)
	}
}

// Infof logs an info message
func (l *Logger) Infof(format string, v ...any) {
	if l.shouldLog(LevelInfo) {
		l.out.Printf("[INFO] "+format, v...)
	}
}

// Warnf logs a warning message
func (l *Logger) Warnf(format string, v ...any) {
	if l.shouldLog(LevelWarn) {
		l.out.Printf("[WARN] "+format, v...)
	}
}

// Errorf logs an error message
func (l *Logger) Errorf(format string, v ...any) {
	if l.shouldLog(LevelError) {
		l.out.Printf("[ERROR] "+format, v...)
	}
}

// Fatalf logs an error message and exits
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+format, v...)
}
