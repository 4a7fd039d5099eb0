// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidPrecision = errors.New("invalid time precision")
)

// Precision selects how much of the sub-second part a timestamp keeps.
type Precision int

const (
	Milliseconds Precision = iota
	Seconds
)

const (
	secondsLayout      = "2006-01-02 15:04:05"
	millisecondsLayout = "2006-01-02 15:04:05.000"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Precision) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "ms", "millis", "milliseconds":
		*p = Milliseconds
	case "s", "sec", "seconds":
		*p = Seconds
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPrecision, string(text))
	}

	return nil
}

func (p Precision) String() string {
	if p == Seconds {
		return "s"
	}
	return "ms"
}

// FormatTimestamp renders t with second or millisecond precision.
// The sub-second fraction is truncated, never rounded.
func FormatTimestamp(t time.Time, p Precision) string {
	if p == Seconds {
		return t.Format(secondsLayout)
	}
	return t.Format(millisecondsLayout)
}

// Record is a single log event as handed to every Sink.
type Record struct {
	Time    time.Time
	Name    string
	Level   Level
	File    string
	Line    int
	Message string
}

// FormatRecord renders r as a single line without the trailing newline:
//
//	2006-01-02 15:04:05.000 [name] - LEVEL - file.go:42 - message
func FormatRecord(r Record, p Precision) string {
	var b strings.Builder
	b.Grow(64 + len(r.Name) + len(r.File) + len(r.Message))

	b.WriteString(FormatTimestamp(r.Time, p))
	b.WriteString(" [")
	b.WriteString(r.Name)
	b.WriteString("] - ")
	b.WriteString(r.Level.String())
	b.WriteString(" - ")
	b.WriteString(r.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(r.Line))
	b.WriteString(" - ")
	b.WriteString(r.Message)

	return b.String()
}
