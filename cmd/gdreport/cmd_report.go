package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		raw   bool
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the full report in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := opts.services().Report.Markdown(commandContext(cmd))
			if err != nil {
				return err
			}

			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}

			styleOpt := glamour.WithAutoStyle()
			if style != "auto" {
				styleOpt = glamour.WithStandardStyle(style)
			}
			renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			out, err := renderer.Render(md)
			if err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without terminal styling")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "word wrap width")

	return cmd
}
