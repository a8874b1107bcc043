package main

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"gdreport/internal/services"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the survey summary as CSV or Excel",
		Example: `  gdreport export --format xlsx
  gdreport export --format csv --out - > summary.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(services.ExportFormats(), format) {
				return fmt.Errorf("unsupported format %q: must be one of %s",
					format, strings.Join(services.ExportFormats(), ", "))
			}
			if out == "" {
				out = "survey_summary." + format
			}

			// Buffered so a failed export never leaves a partial file
			var buf bytes.Buffer
			if err := opts.services().Report.ExportSummary(commandContext(cmd), format, &buf); err != nil {
				return err
			}

			if out == "-" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			success(cmd, "wrote %s (%d bytes)", out, buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", services.FormatCSV, "export format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default survey_summary.<format>)`)

	return cmd
}
