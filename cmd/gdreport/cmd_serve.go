package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gdreport/internal/app"
)

type serveFlags struct {
	host string
	port int
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report page, feedback form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "listen port (overrides server.port)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, flags serveFlags) error {
	if flags.host != "" {
		opts.cfg.Server.Host = flags.host
	}
	if flags.port != 0 {
		if flags.port < 0 || flags.port > 65535 {
			return fmt.Errorf("invalid port: %d", flags.port)
		}
		opts.cfg.Server.Port = flags.port
	}

	application, err := app.NewApplication(opts.cfg, opts.logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return application.Run(commandContext(cmd))
}
