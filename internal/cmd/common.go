// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var (
	errNoArguments     = errors.New("no scenario name provided")
	errInvalidScenario = errors.New("invalid scenario name provided")

	// availableScenarios holds the list of available demo scenarios and their description
	// for command completion and help messages.
	availableScenarios = map[string]string{
		walkthroughScenario: "console verbs, level tokens and configuration changes",
		hierarchyScenario:   "child loggers, cascading settings and root reconfiguration",
	}
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidScenario):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

func validArgsFunc(scenarios map[string]string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var comps []string
		if len(args) == 0 {
			for name, description := range scenarios {
				if strings.HasPrefix(name, toComplete) {
					comps = append(comps, cobra.CompletionWithDesc(name, description))
				}
			}
		}

		return comps, cobra.ShellCompDirectiveNoFileComp
	}
}
