// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mia-platform/templogger/internal/config"
	"github.com/mia-platform/templogger/internal/console"
	"github.com/mia-platform/templogger/internal/logger"
)

const (
	// LogLevelFlagName is the persistent flag overriding the terminal level of the root logger.
	LogLevelFlagName      = "log-level"
	LogLevelShortFlagName = "v"

	// ConfigFlagName is the persistent flag naming the logger configuration file.
	ConfigFlagName      = "config"
	ConfigShortFlagName = "c"
	configFlagUsage     = "path to a YAML file with the root logger configuration"
)

// RootFlags holds the persistent flags shared across the command tree.
type RootFlags struct {
	LogLevel   string
	ConfigPath string
}

// AddFlags registers the persistent CLI flags on cmd.
func (f *RootFlags) AddFlags(cmd *cobra.Command, logLevelUsage string) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.LogLevel, LogLevelFlagName, LogLevelShortFlagName, "", logLevelUsage)
	flags.StringVarP(&f.ConfigPath, ConfigFlagName, ConfigShortFlagName, "", configFlagUsage)
}

// loggerOptions reads the configuration file and the environment, then applies the
// log level flag when it has been set.
func loggerOptions(cmd *cobra.Command) (logger.Options, error) {
	path, _ := cmd.Flags().GetString(ConfigFlagName)
	cfg, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		return logger.Options{}, err
	}

	opts := cfg.Options()
	if cmd.Flags().Changed(LogLevelFlagName) {
		opts.Level, _ = cmd.Flags().GetString(LogLevelFlagName)
	}
	return opts, nil
}

// configureLogging configures the root of the default logging context and stores it in the
// command context.
func configureLogging(cmd *cobra.Command) (*logger.Node, error) {
	opts, err := loggerOptions(cmd)
	if err != nil {
		return nil, err
	}

	node := console.Configure(opts)
	cmd.SetContext(logger.WithContext(cmd.Context(), node))
	return node, nil
}
