// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/templogger/internal/config"
	"github.com/mia-platform/templogger/internal/console"
	"github.com/mia-platform/templogger/internal/level"
	"github.com/mia-platform/templogger/internal/logger"
)

const (
	walkthroughScenario = "walkthrough"
	hierarchyScenario   = "hierarchy"

	demoCmdUsageTemplate = "demo [%s]"
	demoCmdShort         = "replay a demo scenario on the default logger"
	demoCmdLong          = `Replay a demo scenario on the default logger.
	Every scenario writes its messages through the console verbs, so the output
	shows how levels, metadata and colors change while the logger is reconfigured.
	With a backend environment the messages are also appended to a file in ./logs.

	The available scenarios are:
	- walkthrough: console verbs, level tokens and configuration changes
	- hierarchy: child loggers, cascading settings and root reconfiguration`

	demoCmdExample = `# Replay the console walkthrough
	templogger demo walkthrough

	# Replay the hierarchy scenario hiding everything below INFO
	templogger demo hierarchy --log-level info`
)

// DemoCmd returns the Cobra command that replays a demo scenario.
func DemoCmd() *cobra.Command {
	allScenarios := slices.Sorted(maps.Keys(availableScenarios))
	cmd := &cobra.Command{
		Use:     fmt.Sprintf(demoCmdUsageTemplate, strings.Join(allScenarios, "|")),
		Short:   heredoc.Doc(demoCmdShort),
		Long:    heredoc.Doc(demoCmdLong),
		Example: heredoc.Doc(demoCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: validArgsFunc(availableScenarios),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &demoOptions{out: cmd.OutOrStdout()}
			if len(args) > 0 {
				opts.scenario = strings.ToLower(args[0])
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if _, err := configureLogging(cmd); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	return cmd
}

// demoOptions holds the options set for the current demo.
type demoOptions struct {
	scenario string
	out      io.Writer
}

// validate checks the scenario name.
func (o *demoOptions) validate() error {
	if o.scenario == "" {
		return errNoArguments
	}

	if _, ok := availableScenarios[o.scenario]; !ok {
		return fmt.Errorf("%w: %s", errInvalidScenario, o.scenario)
	}

	return nil
}

// execute waits for the sinks of the default context and replays the scenario.
func (o *demoOptions) execute(ctx context.Context) error {
	logging := console.Default()
	if err := logging.Ready(ctx); err != nil {
		return err
	}

	switch o.scenario {
	case walkthroughScenario:
		if err := walkthrough(o.out); err != nil {
			return err
		}
	case hierarchyScenario:
		hierarchy()
	}

	return logging.Flush()
}

func walkthrough(out io.Writer) error {
	fmt.Fprintln(out, "this is what program messages looked like before using templogger")
	fmt.Fprintln(out, "critical but check out what happens when I use it!")
	fmt.Fprintln(out)

	console.Log("DEBUG oh, that was easy")
	console.Log("warn but can I configure the level?")

	root := console.Root()
	root.SetLevelName("info")

	console.Log("info of course! level is " + root.LevelName())
	console.Log("debug ignored")

	console.Log("in case you missed it, there was a debug message that I just suppressed")
	console.Log("critical if you saw it, something is not working.\n")

	alternate := config.LoggerConfig{
		Name:                "test-cli-driver",
		Level:               "warning",
		WithTimestamp:       logger.Bool(true),
		WithLineno:          logger.Bool(true),
		ParseLevelPrefix:    logger.Bool(false),
		WithLevel:           logger.Bool(true),
		WithAlwaysLevelName: logger.Bool(true),
		WithCLIColors:       logger.Bool(false),
		LogToFile:           logger.Bool(true),
	}
	encoded, err := json.MarshalIndent(alternate, "", "  ")
	if err != nil {
		return err
	}
	console.Log("info now let's try an alternate configuration:\n" + string(encoded))
	root = console.Configure(alternate.Options())

	console.Log("this is ignored because log maps to DEBUG")
	console.Info(fmt.Sprintf("this is ignored because INFO < %d=%s", root.Level(), root.LevelName()))

	console.Warn("see the logger options documentation for an explanation of these options")

	console.Error("DO NOT PANIC. Everything is fine!")

	console.Warn("enabling parse_level_prefix and with_always_level_name")

	root.SetParseLevelPrefix(true)
	root.SetWithAlwaysLevelName(true)

	console.Log("this is an always-level message, since it has no prefix specified")

	console.Log("warning creating child loggers")

	artichoke := root.Child("artichoke")
	artichoke.Log("critical artichoke logger initialized")
	bagel := root.Child("bagel")
	bagel.Log("critical bagel logger initialized")

	artichoke.Patch()
	console.Log("warn artichoke is now the active logger, used by the console verbs")
	return nil
}

func hierarchy() {
	root := console.Configure(logger.Options{Name: "hierarchy", WithLineno: logger.Bool(false)})
	db := root.Child("db")
	pool := db.Child("pool")
	http := root.Child("http")

	pool.Log("info pool logger created as " + pool.Name())

	root.SetLevel(level.WARNING)
	pool.Log("info this is suppressed, the root level reached every descendant")

	http.SetLevel(level.DEBUG)
	http.Log("debug http keeps the level it was given afterwards")

	root.Log("warn reconfiguring the root, existing children are adopted")
	console.Configure(logger.Options{Name: "renamed", Level: "info", WithLineno: logger.Bool(false)})
	pool.Log("info the pool logger is now " + pool.Name())

	db.Rename("storage")
	pool.Log("info and after renaming its parent it is " + pool.Name())

	pool.Patch()
	console.Log("critical the console verbs now go through " + pool.Name())
}
