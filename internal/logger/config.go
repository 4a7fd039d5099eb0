// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultDotEnvFile = ".env"

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

// Toggle is a boolean switch read from the environment: only a
// case-insensitive "true" turns it on, any other value turns it off.
type Toggle bool

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Toggle) UnmarshalText(text []byte) error {
	*t = Toggle(strings.EqualFold(strings.TrimSpace(string(text)), "true"))
	return nil
}

// Config holds every setting used by a Registry to configure its loggers.
type Config struct {
	// Env is informational only.
	Env           string    `env:"ENV" envDefault:"development"`
	Level         Level     `env:"LOG_LEVEL" envDefault:"INFO"`
	FilePath      string    `env:"LOG_FILE" envDefault:"logs/app.log"`
	EnableConsole Toggle    `env:"ENABLE_CONSOLE_LOG"`
	EnableFile    Toggle    `env:"ENABLE_FILE_LOG"`
	Precision     Precision `env:"LOG_TIME_PRECISION" envDefault:"ms"`
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() Config {
	return Config{
		Env:           "development",
		Level:         INFO,
		FilePath:      "logs/app.log",
		EnableConsole: true,
		EnableFile:    true,
		Precision:     Milliseconds,
	}
}

// LoadConfig reads the configuration from the process environment. Values
// found in the given dotenv files fill the variables that are not already
// set; without arguments an optional .env file in the working directory is
// used.
func LoadConfig(dotEnvFiles ...string) (*Config, error) {
	environment, err := environWithDotEnv(dotEnvFiles...)
	if err != nil {
		return nil, err
	}

	return parseConfig(environment)
}

func parseConfig(environment map[string]string) (*Config, error) {
	envVars := DefaultConfig()
	if err := env.ParseWithOptions(&envVars, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}
	parseToggles(&envVars, environment)

	if err := validateEnvironmentVariables(&envVars); err != nil {
		return nil, err
	}
	return &envVars, nil
}

// parseToggles reads the toggles that are present in environment, including
// the empty ones that env.Parse skips: an empty value turns the toggle off.
func parseToggles(envVars *Config, environment map[string]string) {
	toggles := map[string]*Toggle{
		"ENABLE_CONSOLE_LOG": &envVars.EnableConsole,
		"ENABLE_FILE_LOG":    &envVars.EnableFile,
	}

	for key, toggle := range toggles {
		if value, found := environment[key]; found {
			_ = toggle.UnmarshalText([]byte(value))
		}
	}
}

func validateEnvironmentVariables(envVars *Config) error {
	envError := make([]string, 0)

	if envVars.EnableFile && strings.TrimSpace(envVars.FilePath) == "" {
		envError = append(envError, "LOG_FILE cannot be empty when ENABLE_FILE_LOG is true")
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}

func environWithDotEnv(files ...string) (map[string]string, error) {
	required := len(files) > 0
	if !required {
		files = []string{defaultDotEnvFile}
	}

	environment := environMap(os.Environ())
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if !required && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrEnvVariablesNotValid, file, err)
		}

		for key, value := range values {
			if _, found := environment[key]; !found {
				environment[key] = value
			}
		}
	}

	return environment, nil
}

func environMap(environ []string) map[string]string {
	environment := make(map[string]string, len(environ))
	for _, pair := range environ {
		if key, value, found := strings.Cut(pair, "="); found {
			environment[key] = value
		}
	}

	return environment
}
