// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     logging
// Description: Leveled key-value logging for all EchoVerse components
// Author:      Mike Stoffels with Claude
// Created:     2026-08-14
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
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

// ParseLevel converts a string level to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
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

// globalLevel is the minimum severity emitted by all loggers
var globalLevel atomic.Int32

func init() {
	globalLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum severity for all loggers
func SetLevel(level Level) {
	globalLevel.Store(int32(level))
}

// CurrentLevel returns the active minimum severity
func CurrentLevel() Level {
	return Level(globalLevel.Load())
}

// Logger writes leveled key-value log lines for one component
type Logger struct {
	name string
	out  io.Writer
	mu   *sync.Mutex
}

// stderrMu serializes writes from all loggers sharing os.Stderr
var stderrMu sync.Mutex

// New creates a logger for the named component, writing to stderr
func New(name string) *Logger {
	return &Logger{
		name: name,
		out:  os.Stderr,
		mu:   &stderrMu,
	}
}

// NewWithOutput creates a logger writing to the given output
func NewWithOutput(name string, out io.Writer) *Logger {
	return &Logger{
		name: name,
		out:  out,
		mu:   &sync.Mutex{},
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues...)
}

func (l *Logger) log(level Level, msg string, keysAndValues ...interface{}) {
	if level < CurrentLevel() {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, " %-5s [%s] %s", strings.ToUpper(level.String()), l.name, msg)

	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fmt.Fprintf(&b, " %s=%v", key, keysAndValues[i+1])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, b.String())
}
