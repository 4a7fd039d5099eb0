// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLevel = errors.New("invalid log level")
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

// ParseLevel returns the Level matching name, ignoring case.
// An empty name selects INFO, while an unknown one is rejected.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "":
		return INFO, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARNING", "WARN":
		return WARNING, nil
	case "ERROR":
		return ERROR, nil
	case "CRITICAL", "FATAL":
		return CRITICAL, nil
	default:
		return INFO, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so a Level can be read
// straight from the environment.
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = level
	return nil
}

func (l Level) valid() bool {
	return l >= DEBUG && l <= CRITICAL
}
