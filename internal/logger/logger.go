// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// callerSkip is the number of frames between runtime.Caller inside log and
// the application code calling one of the emit methods.
const callerSkip = 2

// Logger is a named logger writing every record to its sinks.
type Logger struct {
	name  string
	level atomic.Int32

	mu        sync.RWMutex
	sinks     []Sink
	propagate bool
	parent    *Logger

	now    func() time.Time
	errOut io.Writer
}

// NewLogger creates a logger without sinks at the INFO level that propagates
// its records to its parent, if any.
func NewLogger(name string) *Logger {
	l := &Logger{
		name:      name,
		propagate: true,
		now:       time.Now,
		errOut:    os.Stderr,
	}
	l.level.Store(int32(INFO))

	return l
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum level of the records handled by the logger.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel updates the logger level; invalid levels are ignored.
func (l *Logger) SetLevel(level Level) {
	if level.valid() {
		l.level.Store(int32(level))
	}
}

// Enabled reports whether a record at level would be handled.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// AddSink attaches a new destination to the logger.
func (l *Logger) AddSink(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink)
}

// Sinks returns a copy of the attached sinks.
func (l *Logger) Sinks() []Sink {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Sink(nil), l.sinks...)
}

// Propagate reports whether records are forwarded to the parent logger.
func (l *Logger) Propagate() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.propagate
}

// SetPropagate enables or disables forwarding records to the parent logger.
func (l *Logger) SetPropagate(propagate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.propagate = propagate
}

// Log emits msg at the given level.
func (l *Logger) Log(level Level, msg string) {
	l.log(level, msg)
}

// Debug emits msg at the DEBUG level.
func (l *Logger) Debug(msg string) {
	l.log(DEBUG, msg)
}

// Info emits msg at the INFO level.
func (l *Logger) Info(msg string) {
	l.log(INFO, msg)
}

// Warning emits msg at the WARNING level.
func (l *Logger) Warning(msg string) {
	l.log(WARNING, msg)
}

// Error emits msg at the ERROR level.
func (l *Logger) Error(msg string) {
	l.log(ERROR, msg)
}

// Critical emits msg at the CRITICAL level.
func (l *Logger) Critical(msg string) {
	l.log(CRITICAL, msg)
}

// Debugf formats the message with fmt.Sprintf and emits it at the DEBUG level.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(DEBUG, fmt.Sprintf(format, args...))
}

// Infof formats the message with fmt.Sprintf and emits it at the INFO level.
func (l *Logger) Infof(format string, args ...any) {
	l.log(INFO, fmt.Sprintf(format, args...))
}

// Warningf formats the message with fmt.Sprintf and emits it at the WARNING level.
func (l *Logger) Warningf(format string, args ...any) {
	l.log(WARNING, fmt.Sprintf(format, args...))
}

// Errorf formats the message with fmt.Sprintf and emits it at the ERROR level.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(ERROR, fmt.Sprintf(format, args...))
}

// Criticalf formats the message with fmt.Sprintf and emits it at the CRITICAL level.
func (l *Logger) Criticalf(format string, args ...any) {
	l.log(CRITICAL, fmt.Sprintf(format, args...))
}

func (l *Logger) log(level Level, msg string) {
	if !l.Enabled(level) {
		return
	}

	file, line := "unknown", 0
	if _, path, lineNumber, ok := runtime.Caller(callerSkip); ok {
		file, line = filepath.Base(path), lineNumber
	}

	l.handle(Record{
		Time:    l.now(),
		Name:    l.name,
		Level:   level,
		File:    file,
		Line:    line,
		Message: msg,
	})
}

// handle hands the record to the sinks of l and, while propagation is
// enabled, to the sinks of its ancestors. Ancestor levels are not checked.
func (l *Logger) handle(record Record) {
	for current := l; current != nil; {
		current.mu.RLock()
		sinks := current.sinks
		propagate := current.propagate
		parent := current.parent
		current.mu.RUnlock()

		for _, sink := range sinks {
			if record.Level < sink.Level() {
				continue
			}
			if err := sink.Emit(record); err != nil {
				fmt.Fprintf(l.errOut, "logger %s: failed to write record: %s\n", l.name, err)
			}
		}

		if !propagate {
			return
		}
		current = parent
	}
}
