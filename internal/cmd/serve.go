// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/templogger/internal/logger"
	"github.com/mia-platform/templogger/internal/server"
)

const (
	pageLoggerName = "page"

	serveCmdUsage = "serve"
	serveCmdShort = "serve the page panel over HTTP"
	serveCmdLong  = `Serve the page panel over HTTP.
	Messages posted to /console/log, /console/info, /console/warn and /console/error
	are routed through a frontend logger: they are printed on the terminal and the
	ones passing the page threshold are shown in the panel rendered at /.

	The listening address is read from the HTTP_HOST and HTTP_PORT environment
	variables, and FADE_DURATION sets how long a dismissed message takes to fade.`

	serveCmdExample = `# Serve the panel on the default port
	templogger serve

	# Serve the panel showing warnings and errors only
	TEMPLOGGER_LEVEL_GUI=warning templogger serve`
)

// ServeCmd returns the Cobra command that starts the page panel server.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := configureLogging(cmd); err != nil {
				return handleError(cmd, err)
			}

			opts, err := loggerOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}
			if opts.Name == "" {
				opts.Name = pageLoggerName
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := serve(ctx, opts); err != nil {
				return handleError(cmd, err)
			}
			return nil
		},
	}

	return cmd
}

func serve(ctx context.Context, opts logger.Options) error {
	srv, err := server.NewServer(ctx, opts)
	if err != nil {
		return err
	}

	return run(ctx, srv)
}

// run starts srv and stops it once ctx is done.
func run(ctx context.Context, srv server.Server) error {
	srv.StartAsync(ctx)
	<-ctx.Done()
	return srv.Stop()
}
