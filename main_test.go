// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logfactory/internal/logger"
)

func testRegistry(t *testing.T, console *bytes.Buffer) *logger.Registry {
	t.Helper()

	config := logger.DefaultConfig()
	config.EnableFile = false
	return logger.NewRegistry(config, logger.WithConsoleOutput(console), logger.WithColor(false))
}

func TestRootCommand(t *testing.T) {
	Version = "test"
	BuildDate = "2024-06-01"

	cmd := rootCmd()
	buffer := new(bytes.Buffer)
	cmd.SetOut(buffer)

	registry := testRegistry(t, new(bytes.Buffer))
	ctx := logger.WithContext(t.Context(), registry)

	cmd.SetArgs([]string{"--log-level", "WARNING", "version"})
	err := cmd.ExecuteContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, logger.WARNING, registry.Config().Level)

	lines := strings.Split(buffer.String(), "\n")
	assert.Len(t, lines, 2) // version output + empty line
	assert.Equal(t, versionString(Version, BuildDate, runtime.Version())+"\n", buffer.String())

	buffer.Reset()
	BuildDate = ""
	cmd.SetArgs([]string{"--log-level", "WARNING", "version"})
	err = cmd.ExecuteContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, versionString(Version, "", runtime.Version())+"\n", buffer.String())
}

func TestRootCommandLogLevel(t *testing.T) {
	t.Parallel()

	t.Run("flag overrides the configured level", func(t *testing.T) {
		t.Parallel()

		console := new(bytes.Buffer)
		cmd := rootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs([]string{"-v", "error", "example", "svc"})

		err := cmd.ExecuteContext(logger.WithContext(t.Context(), testRegistry(t, console)))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(console.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "[svc] - ERROR - ")
		assert.Contains(t, lines[1], "[svc] - CRITICAL - ")
	})

	t.Run("without the flag the configured level is kept", func(t *testing.T) {
		t.Parallel()

		console := new(bytes.Buffer)
		cmd := rootCmd()
		cmd.SetArgs([]string{"example"})

		registry := testRegistry(t, console)
		err := cmd.ExecuteContext(logger.WithContext(t.Context(), registry))
		require.NoError(t, err)
		assert.Equal(t, logger.INFO, registry.Config().Level)
		assert.Equal(t, 4, strings.Count(console.String(), "\n"))
	})

	t.Run("invalid level is rejected", func(t *testing.T) {
		t.Parallel()

		console := new(bytes.Buffer)
		errBuffer := new(bytes.Buffer)
		cmd := rootCmd()
		cmd.SetErr(errBuffer)
		cmd.SetArgs([]string{"--log-level", "loud", "example"})

		err := cmd.ExecuteContext(logger.WithContext(t.Context(), testRegistry(t, console)))
		require.ErrorIs(t, err, logger.ErrInvalidLevel)
		assert.Equal(t, "invalid log level: \"loud\"\n", errBuffer.String())
		assert.Empty(t, console.String())
	})
}
