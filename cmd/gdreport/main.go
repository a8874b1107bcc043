// Command gdreport serves the Global Dexterity feedback report and offers
// terminal views of the survey summary, the report and collected feedback.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gdreport/internal/app"
	"gdreport/internal/config"
	"gdreport/internal/infrastructure"
)

// rootOptions carries the global flags and what PersistentPreRunE builds
// from them.
type rootOptions struct {
	configFile string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gdreport",
		Short: "Global Dexterity feedback report",
		Long: `gdreport renders a one-page report on giving critical feedback across
cultures, summarizes the class survey by country and collects reader feedback.

Run without a subcommand to start the web server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logFile != nil {
				opts.logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serveFlags{})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newSummaryCmd(opts),
		newExportCmd(opts),
		newReportCmd(opts),
		newFeedbackCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads configuration and builds the logger. The server logs to stdout
// like any service; the terminal commands log warnings to stderr so their
// output stays clean.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFrom(o.configFile)
	if err != nil {
		return err
	}

	serving := cmd == cmd.Root() || cmd.Name() == "serve"

	var console io.Writer = cmd.ErrOrStderr()
	if serving {
		console = cmd.OutOrStdout()
	} else if o.logLevel == "" {
		cfg.Logging.Level = "warn"
		cfg.Logging.Output = "console"
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger, file, err := infrastructure.NewLogger(cfg.Logging, console)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if serving {
		slog.SetDefault(logger)
	}

	o.cfg = cfg
	o.logger = logger
	o.logFile = file
	return nil
}

// services builds the services without telemetry.
func (o *rootOptions) services() *app.ServiceContainer {
	return app.NewServices(o.cfg, nil, o.logger)
}

// commandContext tags the command's context with a trace ID so its log
// lines correlate.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return infrastructure.EnsureTraceID(ctx)
}

func warn(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s, commit %s)\n",
				config.AppName, config.AppVersion, config.BuildTime, config.GitCommit)
			return nil
		},
	}
}
