// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCompletion(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		args               []string
		toComplete         string
		expectedCompletion []string
	}{
		"no args, complete every scenario": {
			args: []string{},
			expectedCompletion: []string{
				"walkthrough\tconsole verbs, level tokens and configuration changes",
				"hierarchy\tchild loggers, cascading settings and root reconfiguration",
			},
		},
		"some args, no completions": {
			args: []string{"walkthrough"},
		},
		"no args, partial string, return filtered scenarios": {
			args:       []string{},
			toComplete: "h",
			expectedCompletion: []string{
				"hierarchy\tchild loggers, cascading settings and root reconfiguration",
			},
		},
		"no args, partial wrong string, return no scenario": {
			args:       []string{},
			toComplete: "x",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			args, directive := validArgsFunc(availableScenarios)(nil, test.args, test.toComplete)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.ElementsMatch(t, test.expectedCompletion, args)
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		err           error
		expectedError error
		expectUsage   bool
	}{
		"missing scenario prints usage and succeeds": {
			err:         errNoArguments,
			expectUsage: true,
		},
		"invalid scenario prints usage and fails": {
			err:           errInvalidScenario,
			expectedError: errInvalidScenario,
			expectUsage:   true,
		},
		"other errors are only printed": {
			err:           errors.New("boom"),
			expectedError: errors.New("boom"),
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{Use: "test"}
			out := new(bytes.Buffer)
			cmd.SetOut(out)
			cmd.SetErr(out)

			err := handleError(cmd, test.err)
			if test.expectedError == nil {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, test.expectedError.Error())
			}

			if test.expectUsage {
				assert.Contains(t, out.String(), "Usage:")
			} else {
				assert.Equal(t, "boom\n", out.String())
			}
		})
	}
}
