// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Sink is a destination for log records.
type Sink interface {
	// Level returns the minimum level the sink accepts.
	Level() Level

	// Emit writes the record to the destination.
	Emit(record Record) error

	// Close releases any resource held by the sink.
	Close() error
}

// Make sure that the sinks implement Sink.
var (
	_ Sink = &Console{}
	_ Sink = &RotatingFile{}
	_ Sink = Null{}
)

// levelColors returns the color used for every level, already forced on so
// that the rendering does not depend on where the process stdout points.
func levelColors() map[Level]*color.Color {
	colors := map[Level]*color.Color{
		DEBUG:    color.New(color.FgCyan),
		INFO:     color.New(color.FgGreen),
		WARNING:  color.New(color.FgYellow),
		ERROR:    color.New(color.FgRed),
		CRITICAL: color.New(color.FgRed, color.Bold),
	}
	for _, c := range colors {
		c.EnableColor()
	}

	return colors
}

// Console writes one line per record to a stream, colored by level.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	level     atomic.Int32
	precision Precision
	colors    map[Level]*color.Color
}

// NewConsole returns a Console sink writing to out. When colored is false the
// lines are written exactly as a file sink would write them.
func NewConsole(out io.Writer, level Level, precision Precision, colored bool) *Console {
	console := &Console{
		out:       out,
		precision: precision,
	}
	console.level.Store(int32(level))
	if colored {
		console.colors = levelColors()
	}

	return console
}

func (c *Console) Level() Level {
	return Level(c.level.Load())
}

// SetLevel updates the minimum level accepted by the sink; invalid levels are ignored.
func (c *Console) SetLevel(level Level) {
	if level.valid() {
		c.level.Store(int32(level))
	}
}

func (c *Console) Emit(record Record) error {
	line := FormatRecord(record, c.precision)
	if col, ok := c.colors[record.Level]; ok {
		line = col.Sprint(line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, line+"\n")
	return err
}

// Close is a no-op: the console stream is owned by the caller.
func (c *Console) Close() error {
	return nil
}

// Null discards every record.
type Null struct{}

func (Null) Level() Level {
	return DEBUG
}

func (Null) Emit(Record) error {
	return nil
}

func (Null) Close() error {
	return nil
}

// isTerminal reports whether w is an interactive terminal that honors ANSI
// color codes. NO_COLOR disables colors regardless of the terminal.
func isTerminal(w io.Writer) bool {
	if _, found := os.LookupEnv("NO_COLOR"); found {
		return false
	}

	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
