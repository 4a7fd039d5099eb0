// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{}

func (failingSink) Level() Level {
	return DEBUG
}

func (failingSink) Emit(Record) error {
	return errors.New("disk full")
}

func (failingSink) Close() error {
	return nil
}

func bufferLines(buffer *bytes.Buffer) []string {
	content := strings.TrimSuffix(buffer.String(), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	log := NewLogger("svc")
	assert.Equal(t, "svc", log.Name())
	assert.Equal(t, INFO, log.Level())
	assert.True(t, log.Propagate())
	assert.Empty(t, log.Sinks())

	log.SetLevel(ERROR)
	assert.Equal(t, ERROR, log.Level())
	log.SetLevel(Level(42))
	assert.Equal(t, ERROR, log.Level(), "invalid levels are ignored")

	log.SetPropagate(false)
	assert.False(t, log.Propagate())
}

func TestLoggerEmit(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := NewLogger("svc")
	log.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 5, 3, 0, time.Local) }
	log.AddSink(NewConsole(buffer, DEBUG, Seconds, false))
	log.SetLevel(DEBUG)

	_, _, line, _ := runtime.Caller(0)
	log.Debug("debug message")
	log.Info("info message")
	log.Warning("warning message")
	log.Error("error message")
	log.Critical("critical message")
	log.Log(INFO, "generic message")
	log.Debugf("debug %d", 1)
	log.Infof("info %d", 2)
	log.Warningf("warning %d", 3)
	log.Errorf("error %d", 4)
	log.Criticalf("critical %d", 5)

	expected := []string{
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - DEBUG - logger_test.go:%d - debug message", line+1),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - INFO - logger_test.go:%d - info message", line+2),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - WARNING - logger_test.go:%d - warning message", line+3),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - ERROR - logger_test.go:%d - error message", line+4),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - CRITICAL - logger_test.go:%d - critical message", line+5),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - INFO - logger_test.go:%d - generic message", line+6),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - DEBUG - logger_test.go:%d - debug 1", line+7),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - INFO - logger_test.go:%d - info 2", line+8),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - WARNING - logger_test.go:%d - warning 3", line+9),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - ERROR - logger_test.go:%d - error 4", line+10),
		fmt.Sprintf("2025-03-07 09:05:03 [svc] - CRITICAL - logger_test.go:%d - critical 5", line+11),
	}
	assert.Equal(t, expected, bufferLines(buffer))
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	levels := []Level{DEBUG, INFO, WARNING, ERROR, CRITICAL}
	for _, threshold := range levels {
		for _, level := range levels {
			t.Run(fmt.Sprintf("%s at threshold %s", level, threshold), func(t *testing.T) {
				t.Parallel()

				buffer := new(bytes.Buffer)
				log := NewLogger("svc")
				log.SetLevel(threshold)
				log.AddSink(NewConsole(buffer, threshold, Seconds, false))

				log.Log(level, "message")
				assert.Equal(t, level >= threshold, buffer.Len() > 0)
				assert.Equal(t, level >= threshold, log.Enabled(level))
			})
		}
	}
}

func TestLoggerSinkThreshold(t *testing.T) {
	t.Parallel()

	verbose := new(bytes.Buffer)
	quiet := new(bytes.Buffer)
	log := NewLogger("svc")
	log.SetLevel(DEBUG)
	log.AddSink(NewConsole(verbose, DEBUG, Seconds, false))
	log.AddSink(NewConsole(quiet, ERROR, Seconds, false))

	log.Info("only verbose")
	log.Error("both")

	assert.Len(t, bufferLines(verbose), 2)
	require.Len(t, bufferLines(quiet), 1)
	assert.Contains(t, quiet.String(), "both")
}

func TestLoggerPropagation(t *testing.T) {
	t.Parallel()

	parentBuffer := new(bytes.Buffer)
	parent := NewLogger("root")
	parent.SetLevel(CRITICAL)
	parent.AddSink(NewConsole(parentBuffer, DEBUG, Seconds, false))

	childBuffer := new(bytes.Buffer)
	child := NewLogger("child")
	child.parent = parent
	child.AddSink(NewConsole(childBuffer, DEBUG, Seconds, false))

	child.Info("propagated")
	assert.Len(t, bufferLines(childBuffer), 1)
	require.Len(t, bufferLines(parentBuffer), 1, "the parent level does not filter propagated records")
	assert.Contains(t, parentBuffer.String(), "[child] - INFO")

	child.SetPropagate(false)
	child.Info("kept local")
	assert.Len(t, bufferLines(childBuffer), 2)
	assert.Len(t, bufferLines(parentBuffer), 1)
}

func TestLoggerReportsSinkErrors(t *testing.T) {
	t.Parallel()

	errBuffer := new(bytes.Buffer)
	buffer := new(bytes.Buffer)
	log := NewLogger("svc")
	log.errOut = errBuffer
	log.AddSink(failingSink{})
	log.AddSink(NewConsole(buffer, DEBUG, Seconds, false))

	assert.NotPanics(t, func() { log.Error("still written") })
	assert.Equal(t, "logger svc: failed to write record: disk full\n", errBuffer.String())
	assert.Contains(t, buffer.String(), "still written")
}
