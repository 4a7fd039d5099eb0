// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/logfactory/internal/logger"
)

const (
	exampleCmdUsage = "example [name]"
	exampleCmdShort = "emit one message for every severity level"
	exampleCmdLong  = `Emit one message for every severity level through a named logger.
	The logger is configured from the environment:

	- LOG_LEVEL: minimum severity (DEBUG, INFO, WARNING, ERROR, CRITICAL)
	- LOG_FILE: path of the rotated log file (default logs/app.log)
	- ENABLE_CONSOLE_LOG: write colored lines to stderr (default true)
	- ENABLE_FILE_LOG: write plain lines to LOG_FILE (default true)
	- LOG_TIME_PRECISION: timestamp precision, ms or s (default ms)

	Values missing from the environment are read from a .env file in the
	current directory when present.`

	exampleCmdExample = `# Emit the messages through the default "Example Module" logger
	logfactory example

	# Emit the messages through a custom logger showing every level
	LOG_LEVEL=DEBUG logfactory example payments`

	defaultExampleLoggerName = "Example Module"
)

// ExampleCmd returns the Cobra command that exercises a configured logger.
func ExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     exampleCmdUsage,
		Short:   heredoc.Doc(exampleCmdShort),
		Long:    heredoc.Doc(exampleCmdLong),
		Example: heredoc.Doc(exampleCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultExampleLoggerName
			if len(args) > 0 {
				name = args[0]
			}

			log, err := logger.FromContext(cmd.Context()).GetLogger(name)
			if err != nil {
				return handleError(cmd, err)
			}

			emitExampleMessages(log)
			return nil
		},
	}

	return cmd
}

func emitExampleMessages(log *logger.Logger) {
	log.Info("Everything is working.")
	log.Debug("Debugging stuff...")
	log.Warning("Watch out!")
	log.Error("Something went wrong.")
	log.Critical("This is critical!")
}
