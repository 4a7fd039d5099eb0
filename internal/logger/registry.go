// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmptyName = errors.New("logger name cannot be empty")
	ErrFileSink  = errors.New("cannot open log file")
)

const rootLoggerName = "root"

// Registry configures loggers from a Config and hands out exactly one
// Logger per name. Every logger of a registry shares the same console and
// file sinks.
type Registry struct {
	mu      sync.Mutex
	config  Config
	loggers map[string]*Logger
	root    *Logger

	console  io.Writer
	colored  *bool
	now      func() time.Time
	errOut   io.Writer
	maxBytes int64
	backups  int

	consoleSink *Console
	fileSink    *RotatingFile
}

// Option customizes a Registry.
type Option func(*Registry)

// WithConsoleOutput sets the stream used by the console sink, os.Stderr by default.
func WithConsoleOutput(out io.Writer) Option {
	return func(r *Registry) {
		r.console = out
	}
}

// WithColor forces colors on or off; by default colors are used only when the
// console output is a terminal.
func WithColor(enabled bool) Option {
	return func(r *Registry) {
		r.colored = &enabled
	}
}

// WithClock sets the function used to timestamp records.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithRotation overrides the rotation size and the number of kept generations.
func WithRotation(maxBytes int64, backups int) Option {
	return func(r *Registry) {
		r.maxBytes = maxBytes
		r.backups = backups
	}
}

// WithErrorOutput sets where sink write failures are reported, os.Stderr by default.
func WithErrorOutput(out io.Writer) Option {
	return func(r *Registry) {
		r.errOut = out
	}
}

// NewRegistry returns an empty registry for cfg.
func NewRegistry(cfg Config, opts ...Option) *Registry {
	r := &Registry{
		config:   cfg,
		loggers:  make(map[string]*Logger),
		console:  os.Stderr,
		now:      time.Now,
		errOut:   os.Stderr,
		maxBytes: DefaultMaxBytes,
		backups:  DefaultBackups,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.root = r.newLogger(rootLoggerName)
	r.root.SetLevel(WARNING)
	return r
}

// Config returns the configuration in use.
func (r *Registry) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetLevel changes the level used for the loggers configured from now on.
// Loggers already handed out keep their level. The shared sinks are lowered
// to level when needed and never raised, so they keep accepting every record
// that an existing logger lets through.
func (r *Registry) SetLevel(level Level) {
	if !level.valid() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.config.Level = level

	if r.consoleSink != nil && level < r.consoleSink.Level() {
		r.consoleSink.SetLevel(level)
	}
	if r.fileSink != nil && level < r.fileSink.Level() {
		r.fileSink.SetLevel(level)
	}
}

// Root returns the ancestor of every logger of the registry. It has no sinks
// unless the caller adds some, and it only receives records from loggers
// that propagate.
func (r *Registry) Root() *Logger {
	return r.root
}

// GetLogger returns the logger registered under name, configuring it on the
// first request. Further requests return the same instance untouched.
func (r *Registry) GetLogger(name string) (*Logger, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, found := r.loggers[name]; found {
		return l, nil
	}

	l := r.newLogger(name)
	if !r.config.EnableConsole && !r.config.EnableFile {
		l.AddSink(Null{})
		l.SetLevel(WARNING)
		l.SetPropagate(false)
		r.loggers[name] = l
		return l, nil
	}

	l.SetLevel(r.config.Level)

	if r.config.EnableConsole {
		l.AddSink(r.consoleSinkLocked())
	}

	if r.config.EnableFile {
		fileSink, err := r.fileSinkLocked()
		if err != nil {
			return nil, err
		}
		l.AddSink(fileSink)
	}

	l.SetPropagate(false)
	r.loggers[name] = l
	return l, nil
}

// MustGetLogger is like GetLogger but panics when the logger cannot be configured.
func (r *Registry) MustGetLogger(name string) *Logger {
	l, err := r.GetLogger(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Close closes the sinks shared by the registry loggers.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.consoleSink != nil {
		errs = append(errs, r.consoleSink.Close())
	}
	if r.fileSink != nil {
		errs = append(errs, r.fileSink.Close())
	}
	return errors.Join(errs...)
}

func (r *Registry) newLogger(name string) *Logger {
	l := NewLogger(name)
	l.now = r.now
	l.errOut = r.errOut
	l.parent = r.root
	return l
}

// consoleSinkLocked must be called with r.mu held.
func (r *Registry) consoleSinkLocked() *Console {
	if r.consoleSink == nil {
		colored := isTerminal(r.console)
		if r.colored != nil {
			colored = *r.colored
		}
		r.consoleSink = NewConsole(r.console, r.config.Level, r.config.Precision, colored)
	}

	return r.consoleSink
}

// fileSinkLocked must be called with r.mu held.
func (r *Registry) fileSinkLocked() (*RotatingFile, error) {
	if r.fileSink == nil {
		fileSink, err := OpenRotatingFile(
			r.config.FilePath,
			r.config.Level,
			r.config.Precision,
			WithMaxBytes(r.maxBytes),
			WithBackups(r.backups),
		)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrFileSink, r.config.FilePath, err)
		}
		r.fileSink = fileSink
	}

	return r.fileSink, nil
}
