// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/templogger/internal/logger"
)

const (
	// EnvPrefix is prepended to every environment variable read by Load.
	EnvPrefix = "TEMPLOGGER_"
)

var (
	// ErrParsing reports failures that occur while decoding the configuration.
	ErrParsing = errors.New("error parsing")
)

// LoggerConfig holds the root logger configuration. Unset fields keep the logger defaults.
type LoggerConfig struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty" env:"NAME"`
	Level     string `json:"level,omitempty" yaml:"level,omitempty" env:"LEVEL"`
	LevelFile string `json:"levelFile,omitempty" yaml:"levelFile,omitempty" env:"LEVEL_FILE"`
	LevelGUI  string `json:"levelGui,omitempty" yaml:"levelGui,omitempty" env:"LEVEL_GUI"`

	WithTimestamp       *bool `json:"withTimestamp,omitempty" yaml:"withTimestamp,omitempty" env:"WITH_TIMESTAMP"`
	WithLineno          *bool `json:"withLineno,omitempty" yaml:"withLineno,omitempty" env:"WITH_LINENO"`
	ParseLevelPrefix    *bool `json:"parseLevelPrefix,omitempty" yaml:"parseLevelPrefix,omitempty" env:"PARSE_LEVEL_PREFIX"`
	WithLevel           *bool `json:"withLevel,omitempty" yaml:"withLevel,omitempty" env:"WITH_LEVEL"`
	WithAlwaysLevelName *bool `json:"withAlwaysLevelName,omitempty" yaml:"withAlwaysLevelName,omitempty" env:"WITH_ALWAYS_LEVEL_NAME"`
	WithCLIColors       *bool `json:"withCliColors,omitempty" yaml:"withCliColors,omitempty" env:"WITH_CLI_COLORS"`
	LogToFile           *bool `json:"logToFile,omitempty" yaml:"logToFile,omitempty" env:"LOG_TO_FILE"`
}

// Options converts the configuration to the options of a root node.
func (c LoggerConfig) Options() logger.Options {
	return logger.Options{
		Name:                c.Name,
		Level:               c.Level,
		LevelFile:           c.LevelFile,
		LevelGUI:            c.LevelGUI,
		WithTimestamp:       c.WithTimestamp,
		WithLineno:          c.WithLineno,
		ParseLevelPrefix:    c.ParseLevelPrefix,
		WithLevel:           c.WithLevel,
		WithAlwaysLevelName: c.WithAlwaysLevelName,
		WithCLIColors:       c.WithCLIColors,
		LogToFile:           c.LogToFile,
	}
}

// Load reads the YAML file at path, when path is not empty, then applies the environment
// variables prefixed with EnvPrefix on top of it.
func Load(fs afero.Fs, path string) (*LoggerConfig, error) {
	config := new(LoggerConfig)
	if path != "" {
		if err := decodeFile(fs, path, config); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%w environment: %w", ErrParsing, err)
	}
	return config, nil
}

func decodeFile(fs afero.Fs, path string, config *LoggerConfig) error {
	file, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(config); err != nil {
		// an empty file keeps every default
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}
	return nil
}
